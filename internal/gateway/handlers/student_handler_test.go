package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gradeboard/internal/shared"
	"gradeboard/internal/storage/memory"
)

func seedScores(t *testing.T, store *memory.Store, userID string, count int) {
	t.Helper()

	rows := make([]shared.ScoreRow, 0, count)
	for i := 0; i < count; i++ {
		rows = append(rows, shared.ScoreRow{
			ID:         fmt.Sprintf("r%d", i),
			UserID:     userID,
			UploadID:   "upl-1",
			Name:       fmt.Sprintf("Student %d", i),
			Email:      fmt.Sprintf("student%d@example.com", i),
			Subject:    "Math",
			Marks:      60 + i,
			MarksValid: true,
			ExamDate:   time.Date(2024, 5, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}
	upload := shared.Upload{ID: "upl-1", UserID: userID, Name: "seed.csv", RowCount: count}
	if err := store.InsertBatch(context.Background(), upload, rows); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

type studentsResponse struct {
	Success  bool                   `json:"success"`
	Students []shared.StudentRecord `json:"students"`
	Total    int                    `json:"total"`
}

func listStudents(t *testing.T, handler *StudentHandler, user shared.User, query string) (int, studentsResponse) {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, "/api/students"+query, nil)
	w := httptest.NewRecorder()
	handler.ListStudents(w, withUser(r, user))

	var resp studentsResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return w.Code, resp
}

func TestListStudents(t *testing.T) {
	user := shared.User{ID: "user-1", Email: "teacher@example.com", IsActive: true}

	t.Run("missing user is unauthorized", func(t *testing.T) {
		handler := &StudentHandler{Store: memory.New()}
		r := httptest.NewRequest(http.MethodGet, "/api/students", nil)
		w := httptest.NewRecorder()
		handler.ListStudents(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("default page size is five", func(t *testing.T) {
		store := memory.New()
		seedScores(t, store, user.ID, 8)
		handler := &StudentHandler{Store: store}

		code, resp := listStudents(t, handler, user, "")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if len(resp.Students) != 5 {
			t.Errorf("expected 5 students on default page, got %d", len(resp.Students))
		}
		if resp.Total != 8 {
			t.Errorf("expected total 8, got %d", resp.Total)
		}
	})

	t.Run("pagination pages through the full set", func(t *testing.T) {
		store := memory.New()
		seedScores(t, store, user.ID, 8)
		handler := &StudentHandler{Store: store}

		code, resp := listStudents(t, handler, user, "?page=2&limit=5")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if len(resp.Students) != 3 {
			t.Errorf("expected 3 students on page 2, got %d", len(resp.Students))
		}
		if resp.Total != 8 {
			t.Errorf("expected total 8, got %d", resp.Total)
		}
	})

	t.Run("most recent exam dates come first", func(t *testing.T) {
		store := memory.New()
		seedScores(t, store, user.ID, 3)
		handler := &StudentHandler{Store: store}

		_, resp := listStudents(t, handler, user, "")
		if resp.Students[0].Email != "student2@example.com" {
			t.Errorf("expected most recent student first, got %s", resp.Students[0].Email)
		}
	})

	t.Run("search narrows and totals reflect the filter", func(t *testing.T) {
		store := memory.New()
		seedScores(t, store, user.ID, 8)
		handler := &StudentHandler{Store: store}

		code, resp := listStudents(t, handler, user, "?q=student3")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if resp.Total != 1 || len(resp.Students) != 1 {
			t.Errorf("expected exactly one match, got total=%d items=%d", resp.Total, len(resp.Students))
		}
	})

	t.Run("other users' data is invisible", func(t *testing.T) {
		store := memory.New()
		seedScores(t, store, "someone-else", 4)
		handler := &StudentHandler{Store: store}

		_, resp := listStudents(t, handler, user, "")
		if resp.Total != 0 {
			t.Errorf("expected total 0, got %d", resp.Total)
		}
	})

	t.Run("garbage paging parameters fall back to defaults", func(t *testing.T) {
		store := memory.New()
		seedScores(t, store, user.ID, 3)
		handler := &StudentHandler{Store: store}

		code, resp := listStudents(t, handler, user, "?page=zero&limit=-1")
		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d", code)
		}
		if len(resp.Students) != 3 {
			t.Errorf("expected all 3 students, got %d", len(resp.Students))
		}
	})
}
