// Package mongodb implements the storage.Store contract on MongoDB.
package mongodb

import (
	"context"
	"log"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gradeboard/internal/shared"
	"gradeboard/internal/storage"
)

// Store is the MongoDB-backed storage.Store implementation.
type Store struct {
	db          *mongo.Database
	usersCol    *mongo.Collection
	sessionsCol *mongo.Collection
	scoresCol   *mongo.Collection
	uploadsCol  *mongo.Collection
}

// New creates a Store bound to the given database.
func New(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		usersCol:    db.Collection(shared.ColUsers),
		sessionsCol: db.Collection(shared.ColSessions),
		scoresCol:   db.Collection(shared.ColScores),
		uploadsCol:  db.Collection(shared.ColUploads),
	}
}

var _ storage.Store = (*Store)(nil)

// ============================================================================
// Users
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user shared.User) error {
	if _, err := s.usersCol.InsertOne(ctx, user); err != nil {
		return shared.NewServerError("failed to create user", err)
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (shared.User, error) {
	var user shared.User
	err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return shared.User{}, shared.NewNotFoundError("user not found")
		}
		return shared.User{}, shared.NewServerError("failed to retrieve user", err)
	}
	return user, nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (shared.User, error) {
	var user shared.User
	err := s.usersCol.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return shared.User{}, shared.NewNotFoundError("user not found")
		}
		return shared.User{}, shared.NewServerError("failed to retrieve user", err)
	}
	return user, nil
}

// ============================================================================
// Sessions
// ============================================================================

func (s *Store) CreateSession(ctx context.Context, session shared.Session) error {
	if _, err := s.sessionsCol.InsertOne(ctx, session); err != nil {
		return shared.NewServerError("failed to create session", err)
	}
	return nil
}

func (s *Store) FindSessionByToken(ctx context.Context, token string) (shared.Session, error) {
	var session shared.Session
	err := s.sessionsCol.FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return shared.Session{}, shared.NewNotFoundError("session not found")
		}
		return shared.Session{}, shared.NewServerError("failed to retrieve session", err)
	}
	return session, nil
}

func (s *Store) DeleteSessionByToken(ctx context.Context, token string) error {
	if _, err := s.sessionsCol.DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return shared.NewServerError("failed to delete session", err)
	}
	return nil
}

// ============================================================================
// Scores
// ============================================================================

// InsertBatch persists the upload record and its rows. MongoDB has no
// cross-collection transaction on standalone deployments, so a row
// insert failure triggers best-effort cleanup of whatever part of the
// batch made it in; the caller sees the whole upload as failed.
func (s *Store) InsertBatch(ctx context.Context, upload shared.Upload, rows []shared.ScoreRow) error {
	if _, err := s.uploadsCol.InsertOne(ctx, upload); err != nil {
		return shared.NewServerError("failed to record upload", err)
	}

	if len(rows) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}

	if _, err := s.scoresCol.InsertMany(ctx, docs); err != nil {
		s.rollbackBatch(ctx, upload.ID)
		return shared.NewServerError("failed to save score rows", err)
	}

	return nil
}

func (s *Store) rollbackBatch(ctx context.Context, uploadID string) {
	if _, err := s.scoresCol.DeleteMany(ctx, bson.M{"upload_id": uploadID}); err != nil {
		log.Printf("WARN: [Store] failed to roll back rows of upload %s: %v", uploadID, err)
	}
	if _, err := s.uploadsCol.DeleteOne(ctx, bson.M{"_id": uploadID}); err != nil {
		log.Printf("WARN: [Store] failed to roll back upload record %s: %v", uploadID, err)
	}
}

func (s *Store) ListScores(ctx context.Context, filter storage.ScoreFilter) ([]shared.ScoreRow, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "exam_date", Value: -1}, {Key: "created_at", Value: 1}})

	cursor, err := s.scoresCol.Find(ctx, scoreQuery(filter), findOptions)
	if err != nil {
		return nil, shared.NewServerError("failed to retrieve scores", err)
	}
	defer cursor.Close(ctx)

	rows := make([]shared.ScoreRow, 0)
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, shared.NewServerError("failed to decode scores", err)
	}

	return rows, nil
}

func (s *Store) CountScores(ctx context.Context, filter storage.ScoreFilter) (int64, error) {
	count, err := s.scoresCol.CountDocuments(ctx, scoreQuery(filter))
	if err != nil {
		return 0, shared.NewServerError("failed to count scores", err)
	}
	return count, nil
}

// scoreQuery builds the user-scoped filter, with an optional
// case-insensitive substring match on name or email.
func scoreQuery(filter storage.ScoreFilter) bson.M {
	q := bson.M{"user_id": filter.UserID}

	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		q["$or"] = []bson.M{
			{"name": bson.M{"$regex": pattern}},
			{"email": bson.M{"$regex": pattern}},
		}
	}

	return q
}

// ============================================================================
// Uploads
// ============================================================================

func (s *Store) ListUploads(ctx context.Context, userID string) ([]shared.Upload, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.uploadsCol.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, shared.NewServerError("failed to retrieve uploads", err)
	}
	defer cursor.Close(ctx)

	uploads := make([]shared.Upload, 0)
	if err := cursor.All(ctx, &uploads); err != nil {
		return nil, shared.NewServerError("failed to decode uploads", err)
	}

	return uploads, nil
}
