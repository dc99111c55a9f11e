package ingest

import (
	"gradeboard/internal/shared"
)

// Group folds flat score rows into per-student records keyed by email.
//
// The first row seen for an email establishes the record's id, name and
// email; later rows with the same email only append subjects. Rows that
// are incomplete (empty subject, or marks that could not be derived)
// still create the student's record but are not surfaced in its subjects
// list — they remain stored rows, visible only as diagnostics.
//
// Output order is the insertion order of each email's first occurrence,
// which keeps pagination deterministic within one invocation.
func Group(rows []shared.ScoreRow) []shared.StudentRecord {
	index := make(map[string]int, len(rows))
	grouped := make([]shared.StudentRecord, 0)

	for _, row := range rows {
		key := row.Email

		i, ok := index[key]
		if !ok {
			i = len(grouped)
			index[key] = i
			grouped = append(grouped, shared.StudentRecord{
				ID:       row.ID,
				Name:     row.Name,
				Email:    row.Email,
				Subjects: []shared.SubjectEntry{},
			})
		}

		if !row.IsComplete() {
			continue
		}

		grouped[i].Subjects = append(grouped[i].Subjects, shared.SubjectEntry{
			Subject:  row.Subject,
			Marks:    row.Marks,
			ExamDate: row.ExamDate,
		})
	}

	return grouped
}
