package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"gradeboard/internal/gateway/util"
	"gradeboard/internal/ingest"
	"gradeboard/internal/shared"
	"gradeboard/internal/storage"
)

// UploadHandler accepts CSV score files and runs them through the
// ingestion pipeline.
type UploadHandler struct {
	Store  storage.Store
	Config *shared.Config
}

// helper to get user from context
func getUserFromContext(r *http.Request) *shared.User {
	user, ok := r.Context().Value("user").(shared.User)
	if !ok {
		return nil
	}
	return &user
}

// Upload handles POST /upload
// Accepts a multipart form with a single "file" part containing CSV data.
// The whole batch commits or nothing does; per-row data-quality issues
// come back as warnings, never as a rejection.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Config.Upload.MaxSizeBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	rawRows, err := ingest.Decode(file)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	now := time.Now()
	uploadID := "upl-" + uuid.NewString()

	scoreRows := make([]shared.ScoreRow, 0, len(rawRows))
	warnings := make([]string, 0)

	for i, raw := range rawRows {
		entry, rowWarnings := ingest.Normalize(raw, now)

		// Line numbers are 1-based and account for the header line.
		line := i + 2
		for _, warning := range rowWarnings {
			log.Printf("WARN: [Upload] %s line %d (%s): %s", header.Filename, line, warning.Field, warning.Message)
			warnings = append(warnings, fmt.Sprintf("line %d: %s", line, warning.Message))
		}

		scoreRows = append(scoreRows, shared.ScoreRow{
			ID:         "score-" + uuid.NewString(),
			UserID:     user.ID,
			UploadID:   uploadID,
			Name:       entry.Name,
			Email:      entry.Email,
			Subject:    entry.Subject,
			Marks:      entry.Marks,
			MarksValid: entry.MarksValid,
			ExamDate:   entry.ExamDate,
			CreatedAt:  now,
		})
	}

	upload := shared.Upload{
		ID:        uploadID,
		UserID:    user.ID,
		Name:      header.Filename,
		RowCount:  len(scoreRows),
		CreatedAt: now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Store.InsertBatch(ctx, upload, scoreRows); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	log.Printf("INFO: [Upload] stored %d rows from %s for user %s", len(scoreRows), header.Filename, user.ID)

	response := map[string]interface{}{
		"success":   true,
		"upload_id": uploadID,
		"students":  ingest.Group(scoreRows),
		"warnings":  warnings,
	}

	util.WriteJSON(w, http.StatusOK, response)
}

// ListUploads handles GET /uploads
// Returns the user's upload batches, most recent first.
func (h *UploadHandler) ListUploads(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uploads, err := h.Store.ListUploads(ctx, user.ID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"success": true,
		"uploads": uploads,
	}

	util.WriteJSON(w, http.StatusOK, response)
}
