package util

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"gradeboard/internal/shared"
)

// JSONResponse structure for successful responses
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSONError structure for error responses
type JSONError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSON is a helper to write JSON responses
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Create the final response object structure based on payload type
	var response interface{}

	// If payload is already a map with a "success" key, use it directly (custom format)
	if responseMap, ok := payload.(map[string]interface{}); ok && responseMap["success"] != nil {
		response = payload
	} else if status >= 200 && status < 300 {
		// Standard success response wrapper
		response = JSONResponse{Success: true, Data: payload}
	} else {
		// Fallback for errors if WriteJSONError wasn't used
		response = JSONError{Success: false, Message: "Unknown error"}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONError is a helper to write standardized error JSON responses
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	log.Printf("HTTP Error %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success: false,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Error writing JSON error response: %v", err)
	}
}

// HandleServiceError translates service error kinds to appropriate HTTP
// responses. This is the single error-mapping point for the gateway;
// handlers never pick status codes themselves.
func HandleServiceError(w http.ResponseWriter, err error) {
	switch shared.KindOf(err) {
	case shared.KindFormat, shared.KindValidation:
		WriteJSONError(w, http.StatusBadRequest, shared.MessageOf(err))
	case shared.KindUnauthorized:
		WriteJSONError(w, http.StatusUnauthorized, shared.MessageOf(err))
	case shared.KindNotFound:
		WriteJSONError(w, http.StatusNotFound, shared.MessageOf(err))
	default:
		WriteJSONError(w, http.StatusInternalServerError, shared.MessageOf(err))
	}
}

// ExtractToken extracts the token from the Authorization header (Bearer <token>)
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	// Expect header: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
