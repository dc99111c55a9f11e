package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gradeboard/internal/auth"
	"gradeboard/internal/shared"
	"gradeboard/internal/storage/memory"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	config := &shared.Config{
		Security: shared.SecurityConfig{
			JWTSecret:          "test-secret",
			JWTExpirationHours: 1,
			BCryptCost:         bcrypt.MinCost,
		},
		Upload: shared.UploadConfig{MaxSizeBytes: 1024 * 1024},
		CORS: shared.CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
	}

	store := memory.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := shared.User{
		ID:           "user-1",
		Email:        "teacher@example.com",
		Name:         "Teacher",
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return SetupRoutes(config, store, auth.NewService(store, config))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/api/students", "/api/stats", "/api/uploads", "/api/auth/validate"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 without token, got %d", path, w.Code)
		}
	}
}

func TestLoginThenAccess(t *testing.T) {
	router := testRouter(t)

	// Login through the full router
	body := bytes.NewBufferString(`{"identifier":"teacher@example.com","password":"secret123"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if loginResp.Token == "" {
		t.Fatal("expected a token")
	}

	// The token opens the protected routes
	r = httptest.NewRequest(http.MethodGet, "/api/students", nil)
	r.Header.Set("Authorization", "Bearer "+loginResp.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("students: expected 200 with token, got %d: %s", w.Code, w.Body.String())
	}

	// A bogus token does not
	r = httptest.NewRequest(http.MethodGet, "/api/students", nil)
	r.Header.Set("Authorization", "Bearer bogus")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("students: expected 401 with bogus token, got %d", w.Code)
	}
}
