// Package storage defines the Store contract the gradeboard core requires
// from its persistence collaborator. The core never caches across
// requests; every query re-reads through this interface, and the concrete
// client is constructed once at process start and injected by reference.
package storage

import (
	"context"

	"gradeboard/internal/shared"
)

// ScoreFilter narrows score listings to one user's rows, optionally to
// rows whose name or email contains a case-insensitive substring.
type ScoreFilter struct {
	UserID string
	Search string
}

// Store is the persistence contract. Any backend offering user-scoped
// bulk insert, filtered listing ordered by exam date, and match counting
// satisfies the core's needs.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user shared.User) error
	FindUserByEmail(ctx context.Context, email string) (shared.User, error)
	FindUserByID(ctx context.Context, id string) (shared.User, error)

	// Sessions
	CreateSession(ctx context.Context, session shared.Session) error
	FindSessionByToken(ctx context.Context, token string) (shared.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error

	// Scores. InsertBatch persists one upload's rows together with its
	// batch record; it either commits the whole batch or nothing.
	// ListScores returns rows ordered by exam date, most recent first.
	InsertBatch(ctx context.Context, upload shared.Upload, rows []shared.ScoreRow) error
	ListScores(ctx context.Context, filter ScoreFilter) ([]shared.ScoreRow, error)
	CountScores(ctx context.Context, filter ScoreFilter) (int64, error)

	// Uploads
	ListUploads(ctx context.Context, userID string) ([]shared.Upload, error)
}
