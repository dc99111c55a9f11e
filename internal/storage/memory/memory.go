// Package memory implements storage.Store with in-process maps. It backs
// unit tests so the pipeline and handlers can run without MongoDB, and
// mirrors the MongoDB implementation's filter and ordering semantics.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gradeboard/internal/shared"
	"gradeboard/internal/storage"
)

// Store is the map-backed storage.Store implementation.
type Store struct {
	mu       sync.RWMutex
	users    map[string]shared.User    // keyed by user ID
	sessions map[string]shared.Session // keyed by token
	scores   []shared.ScoreRow
	uploads  []shared.Upload

	// FailInserts makes InsertBatch fail, for exercising the
	// persistence-error path in tests.
	FailInserts bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[string]shared.User),
		sessions: make(map[string]shared.Session),
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) CreateUser(_ context.Context, user shared.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (shared.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return shared.User{}, shared.NewNotFoundError("user not found")
}

func (s *Store) FindUserByID(_ context.Context, id string) (shared.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return shared.User{}, shared.NewNotFoundError("user not found")
}

func (s *Store) CreateSession(_ context.Context, session shared.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *Store) FindSessionByToken(_ context.Context, token string) (shared.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return shared.Session{}, shared.NewNotFoundError("session not found")
}

func (s *Store) DeleteSessionByToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *Store) InsertBatch(_ context.Context, upload shared.Upload, rows []shared.ScoreRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInserts {
		return shared.NewServerError("failed to save score rows", nil)
	}
	s.uploads = append(s.uploads, upload)
	s.scores = append(s.scores, rows...)
	return nil
}

func (s *Store) ListScores(_ context.Context, filter storage.ScoreFilter) ([]shared.ScoreRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]shared.ScoreRow, 0)
	for _, row := range s.scores {
		if matchesScore(row, filter) {
			matched = append(matched, row)
		}
	}

	// Most recent exam first, insertion order as tiebreak.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].ExamDate.After(matched[j].ExamDate)
	})

	return matched, nil
}

func (s *Store) CountScores(_ context.Context, filter storage.ScoreFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, row := range s.scores {
		if matchesScore(row, filter) {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListUploads(_ context.Context, userID string) ([]shared.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uploads := make([]shared.Upload, 0)
	for _, up := range s.uploads {
		if up.UserID == userID {
			uploads = append(uploads, up)
		}
	}

	sort.SliceStable(uploads, func(i, j int) bool {
		return uploads[i].CreatedAt.After(uploads[j].CreatedAt)
	})

	return uploads, nil
}

func matchesScore(row shared.ScoreRow, filter storage.ScoreFilter) bool {
	if row.UserID != filter.UserID {
		return false
	}
	if filter.Search == "" {
		return true
	}
	needle := strings.ToLower(filter.Search)
	return strings.Contains(strings.ToLower(row.Name), needle) ||
		strings.Contains(strings.ToLower(row.Email), needle)
}
