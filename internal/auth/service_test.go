package auth

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gradeboard/internal/shared"
	"gradeboard/internal/storage/memory"
)

func testConfig() *shared.Config {
	return &shared.Config{
		Security: shared.SecurityConfig{
			JWTSecret:          "test-secret",
			JWTExpirationHours: 1,
			BCryptCost:         bcrypt.MinCost,
		},
	}
}

func seedUser(t *testing.T, store *memory.Store, email, password string, active bool) shared.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := shared.User{
		ID:           "user-" + email,
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		IsActive:     active,
		CreatedAt:    time.Now(),
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	service := NewService(store, testConfig())
	seedUser(t, store, "alice@example.com", "secret123", true)
	seedUser(t, store, "inactive@example.com", "secret123", false)

	t.Run("valid credentials return token and user", func(t *testing.T) {
		token, user, err := service.Login(ctx, "alice@example.com", "secret123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if token == "" {
			t.Error("expected a non-empty token")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("unexpected user: %+v", user)
		}

		// Session must exist server-side
		if _, err := store.FindSessionByToken(ctx, token); err != nil {
			t.Errorf("expected a session for the token: %v", err)
		}
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, _, err := service.Login(ctx, "alice@example.com", "wrong")
		if shared.KindOf(err) != shared.KindUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("unknown email is unauthorized, not not-found", func(t *testing.T) {
		_, _, err := service.Login(ctx, "nobody@example.com", "secret123")
		if shared.KindOf(err) != shared.KindUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		_, _, err := service.Login(ctx, "inactive@example.com", "secret123")
		if shared.KindOf(err) != shared.KindUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("empty credentials fail validation", func(t *testing.T) {
		_, _, err := service.Login(ctx, "", "")
		if shared.KindOf(err) != shared.KindValidation {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestValidateAndLogout(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	service := NewService(store, testConfig())
	seedUser(t, store, "alice@example.com", "secret123", true)

	token, _, err := service.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	t.Run("valid token resolves to its user", func(t *testing.T) {
		user, err := service.Validate(ctx, token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if user.Email != "alice@example.com" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		_, err := service.Validate(ctx, "not-a-jwt")
		if shared.KindOf(err) != shared.KindUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("token signed with a different secret is unauthorized", func(t *testing.T) {
		otherConfig := testConfig()
		otherConfig.Security.JWTSecret = "other-secret"
		otherService := NewService(store, otherConfig)

		otherToken, _, err := otherService.Login(ctx, "alice@example.com", "secret123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if _, err := service.Validate(ctx, otherToken); shared.KindOf(err) != shared.KindUnauthorized {
			t.Errorf("expected unauthorized, got %v", err)
		}
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		if err := service.Logout(ctx, token); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if _, err := service.Validate(ctx, token); shared.KindOf(err) != shared.KindUnauthorized {
			t.Errorf("expected unauthorized after logout, got %v", err)
		}
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		if err := service.Logout(ctx, token); err != nil {
			t.Errorf("repeated Logout must succeed: %v", err)
		}
	})
}

func TestExpiredSession(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	service := NewService(store, testConfig())
	user := seedUser(t, store, "alice@example.com", "secret123", true)

	token, _, err := service.Login(ctx, "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Replace the session with one that already expired; the JWT itself is
	// still within its validity window.
	expired := shared.Session{
		ID:        "sess-expired",
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	if err := store.CreateSession(ctx, expired); err != nil {
		t.Fatalf("failed to overwrite session: %v", err)
	}

	if _, err := service.Validate(ctx, token); shared.KindOf(err) != shared.KindUnauthorized {
		t.Errorf("expected unauthorized for expired session, got %v", err)
	}
}
