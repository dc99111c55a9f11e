// Package auth issues and validates JWT sessions. The OAuth handshake
// with the upstream identity provider is out of scope; this service is
// the boundary where an authenticated identity becomes a bearer token
// the gateway can check on every request.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gradeboard/internal/shared"
	"gradeboard/internal/storage"
)

// Service authenticates users and manages their sessions.
type Service struct {
	store  storage.Store
	config *shared.Config
}

// CustomClaims for JWT
type CustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewService creates a new auth Service instance.
func NewService(store storage.Store, config *shared.Config) *Service {
	return &Service{store: store, config: config}
}

// Login authenticates a user by email and password and returns a JWT
// backed by a server-side session record, so tokens can be revoked.
func (s *Service) Login(ctx context.Context, email, password string) (string, shared.User, error) {
	if email == "" || password == "" {
		return "", shared.User{}, shared.NewValidationError("email and password are required")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return "", shared.User{}, shared.NewUnauthorizedError("invalid credentials")
		}
		return "", shared.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", shared.User{}, shared.NewUnauthorizedError("invalid credentials")
	}

	if !user.IsActive {
		return "", shared.User{}, shared.NewUnauthorizedError("account is inactive")
	}

	tokenString, expiresAt, err := s.generateToken(user)
	if err != nil {
		return "", shared.User{}, shared.NewServerError("failed to generate token", err)
	}

	session := shared.Session{
		ID:        "sess-" + uuid.NewString(),
		UserID:    user.ID,
		Token:     tokenString,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", shared.User{}, err
	}

	return tokenString, user, nil
}

// Logout invalidates the session behind the given token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return shared.NewValidationError("token is required")
	}
	return s.store.DeleteSessionByToken(ctx, token)
}

// Validate checks the token signature and expiry, confirms the session
// still exists server-side, and returns the owning user.
func (s *Service) Validate(ctx context.Context, token string) (shared.User, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return shared.User{}, shared.NewUnauthorizedError("invalid or expired token")
	}

	session, err := s.store.FindSessionByToken(ctx, token)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return shared.User{}, shared.NewUnauthorizedError("session has been revoked")
		}
		return shared.User{}, err
	}

	if session.IsExpired() {
		return shared.User{}, shared.NewUnauthorizedError("session has expired")
	}

	user, err := s.store.FindUserByID(ctx, claims.UserID)
	if err != nil {
		if shared.KindOf(err) == shared.KindNotFound {
			return shared.User{}, shared.NewUnauthorizedError("user no longer exists")
		}
		return shared.User{}, err
	}

	if !user.IsActive {
		return shared.User{}, shared.NewUnauthorizedError("account is inactive")
	}

	return user, nil
}

func (s *Service) generateToken(user shared.User) (string, time.Time, error) {
	expirationTime := time.Now().Add(time.Duration(s.config.Security.JWTExpirationHours) * time.Hour)

	claims := &CustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Security.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expirationTime, nil
}

func (s *Service) parseToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.Security.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
