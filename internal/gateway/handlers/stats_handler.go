package handlers

import (
	"context"
	"net/http"
	"time"

	"gradeboard/internal/gateway/util"
	"gradeboard/internal/ingest"
	"gradeboard/internal/stats"
	"gradeboard/internal/storage"
)

// StatsHandler serves the dashboard statistics summary.
type StatsHandler struct {
	Store storage.Store
}

// GetStats handles GET /stats
// Computes the summary over the user's full dataset, unfiltered; the
// search box only narrows the students list, never the statistics.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)
	if user == nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Store.ListScores(ctx, storage.ScoreFilter{UserID: user.ID})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	summary := stats.Summarize(ingest.Group(rows))

	response := map[string]interface{}{
		"success": true,
		"stats":   summary,
	}

	util.WriteJSON(w, http.StatusOK, response)
}
