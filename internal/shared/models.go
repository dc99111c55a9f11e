// ============================================================================
// internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"time"
)

// ============================================================================
// User Models
// ============================================================================

// User represents an account that owns uploaded score data.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	IsActive     bool      `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Session represents an active user session (for JWT tracking)
type Session struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsExpired checks if a session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ============================================================================
// Score Models
// ============================================================================

// ScoreRow is one flat exam result as persisted in the scores collection:
// one CSV line, one subject, one mark, scoped to the uploading user and
// the upload batch it arrived in.
//
// MarksValid records whether Marks was actually derived from the source
// row. A row whose marks field was present but unparseable keeps the
// default of 0 with MarksValid=false, so the serving side can exclude it
// from the complete subjects view without losing the stored row.
type ScoreRow struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"-"`
	UploadID   string    `bson:"upload_id" json:"upload_id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Subject    string    `bson:"subject" json:"subject"`
	Marks      int       `bson:"marks" json:"marks"`
	MarksValid bool      `bson:"marks_valid" json:"-"`
	ExamDate   time.Time `bson:"exam_date" json:"examDate"`
	CreatedAt  time.Time `bson:"created_at" json:"-"`
}

// IsComplete reports whether the row carries enough data to surface as a
// subject entry on the dashboard. Incomplete rows stay stored but are
// only counted as diagnostics.
func (r *ScoreRow) IsComplete() bool {
	return r.Subject != "" && r.MarksValid
}

// SubjectEntry is one subject result inside a grouped student record.
type SubjectEntry struct {
	Subject  string    `bson:"subject" json:"subject"`
	Marks    int       `bson:"marks" json:"marks"`
	ExamDate time.Time `bson:"exam_date" json:"examDate"`
}

// StudentRecord is the grouped per-student view: all of one student's
// subject entries, keyed by email. Name and email are taken from the
// first row seen for that email and never overwritten by later rows.
type StudentRecord struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Subjects []SubjectEntry `json:"subjects"`
}

// LatestExamDate returns the most recent exam date across the student's
// subjects. The bool is false when the student has no subjects.
func (s *StudentRecord) LatestExamDate() (time.Time, bool) {
	if len(s.Subjects) == 0 {
		return time.Time{}, false
	}
	latest := s.Subjects[0].ExamDate
	for _, sub := range s.Subjects[1:] {
		if sub.ExamDate.After(latest) {
			latest = sub.ExamDate
		}
	}
	return latest, true
}

// Upload represents one CSV upload batch.
type Upload struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"-"`
	Name      string    `bson:"name" json:"name"`
	RowCount  int       `bson:"row_count" json:"row_count"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ============================================================================
// Grade Bands
// ============================================================================

// GradeBand maps marks to a letter band for distribution reporting:
// A [90,100], B [80,90), C [70,80), D [60,70), F below 60.
func GradeBand(marks int) string {
	switch {
	case marks >= 90:
		return BandA
	case marks >= 80:
		return BandB
	case marks >= 70:
		return BandC
	case marks >= 60:
		return BandD
	default:
		return BandF
	}
}

// ============================================================================
// Constants
// ============================================================================

const (
	// Grade bands
	BandA = "A"
	BandB = "B"
	BandC = "C"
	BandD = "D"
	BandF = "F"

	// Collection names
	ColUsers    = "users"
	ColSessions = "sessions"
	ColScores   = "scores"
	ColUploads  = "uploads"
)
