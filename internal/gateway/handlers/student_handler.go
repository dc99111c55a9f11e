package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"gradeboard/internal/gateway/util"
	"gradeboard/internal/ingest"
	"gradeboard/internal/query"
	"gradeboard/internal/storage"
)

// StudentHandler serves the grouped student view.
type StudentHandler struct {
	Store storage.Store
}

// ListStudents handles GET /students
// Query Params: q (optional search), page (default 1), limit (default 5)
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := r.URL.Query().Get("q")
	page := parseIntParam(r, "page", 1)
	limit := parseIntParam(r, "limit", query.DefaultLimit)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Store.ListScores(ctx, storage.ScoreFilter{UserID: user.ID, Search: q})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	students := ingest.Group(rows)
	result := query.Run(students, q, page, limit)

	response := map[string]interface{}{
		"success":  true,
		"students": result.Items,
		"total":    result.Total,
	}

	util.WriteJSON(w, http.StatusOK, response)
}

// parseIntParam reads a positive integer query parameter, falling back to
// the default on absence or garbage.
func parseIntParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return defaultValue
	}

	return value
}
