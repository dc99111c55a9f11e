package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"gradeboard/internal/auth"
	"gradeboard/internal/gateway/util"
)

var validate = validator.New()

// AuthHandler holds the auth service used for login and token checks.
type AuthHandler struct {
	AuthService *auth.Service
}

// RESTLoginRequest mirrors the expected JSON input for /auth/login
type RESTLoginRequest struct {
	Identifier string `json:"identifier" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		if errors.Is(err, io.EOF) {
			util.WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// Input validation before touching the store
	if err := validate.Struct(reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "A valid email identifier and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, user, err := h.AuthService.Login(ctx, reqBody.Identifier, reqBody.Password)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    user,
	}

	util.WriteJSON(w, http.StatusOK, response)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// Logout requires extracting the token from the header
	token, err := util.ExtractToken(r)
	if err != nil {
		// Successful removal of an unknown token is fine (idempotent), so a
		// missing or malformed header still reads as a completed logout.
		util.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Logged out successfully (session token not provided or invalid format)",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.AuthService.Logout(ctx, token); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ValidateToken handles GET /auth/validate
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	// AuthMiddleware already validated the token and stashed the user.
	user := getUserFromContext(r)
	if user == nil {
		util.WriteJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"valid":   false,
			"message": "Invalid or expired token",
		})
		return
	}

	response := map[string]interface{}{
		"valid":   true,
		"user":    user,
		"message": "Token is valid",
	}

	util.WriteJSON(w, http.StatusOK, response)
}
