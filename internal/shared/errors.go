// ============================================================================
// internal/shared/errors.go
// Error taxonomy shared by the core pipeline and the HTTP gateway
// ============================================================================

package shared

import "errors"

// Kind classifies a failure so the gateway can map it to an HTTP status
// without inspecting message strings.
type Kind int

const (
	// KindServer is the catch-all: persistence or other downstream failure.
	KindServer Kind = iota
	// KindFormat means the input is not decodable as CSV with a header row.
	KindFormat
	// KindValidation means required request data is absent or malformed.
	KindValidation
	// KindUnauthorized means the caller has no valid authenticated identity.
	KindUnauthorized
	// KindNotFound means a referenced record does not exist.
	KindNotFound
)

// ServiceError carries a Kind alongside a client-safe message and an
// optional wrapped cause.
type ServiceError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func NewFormatError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindFormat, Message: message, Err: err}
}

func NewValidationError(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message}
}

func NewUnauthorizedError(message string) *ServiceError {
	return &ServiceError{Kind: KindUnauthorized, Message: message}
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func NewServerError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindServer, Message: message, Err: err}
}

// KindOf extracts the Kind from err; anything that is not a ServiceError
// is treated as a server failure.
func KindOf(err error) Kind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindServer
}

// MessageOf returns the client-safe message of err. Wrapped causes are
// not exposed to clients.
func MessageOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return "internal server error"
}
