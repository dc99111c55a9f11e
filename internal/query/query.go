// Package query serves grouped student records back to clients: search,
// sort, and stable pagination.
package query

import (
	"sort"
	"strings"

	"gradeboard/internal/shared"
)

// DefaultLimit is the page size used when the client does not send one.
const DefaultLimit = 5

// Result is one page of student records plus the count of records that
// matched the filter before pagination.
type Result struct {
	Items []shared.StudentRecord `json:"students"`
	Total int                    `json:"total"`
}

// Run filters, sorts, and paginates grouped student records.
//
// A record matches q when q is a case-insensitive substring of its name
// or email; an empty q matches everything. Matches are ordered by each
// student's most recent exam date, descending, with students that have
// no subjects sorting last. page and limit are 1-based; values below 1
// are clamped. A page past the end of the data returns empty items with
// the correct total.
func Run(students []shared.StudentRecord, q string, page, limit int) Result {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	matched := filter(students, q)

	sort.SliceStable(matched, func(i, j int) bool {
		di, iOK := matched[i].LatestExamDate()
		dj, jOK := matched[j].LatestExamDate()
		if iOK != jOK {
			return iOK // students with no subjects sort last
		}
		return di.After(dj)
	})

	total := len(matched)

	skip := (page - 1) * limit
	if skip >= total {
		return Result{Items: []shared.StudentRecord{}, Total: total}
	}

	end := skip + limit
	if end > total {
		end = total
	}

	return Result{Items: matched[skip:end], Total: total}
}

func filter(students []shared.StudentRecord, q string) []shared.StudentRecord {
	matched := make([]shared.StudentRecord, 0, len(students))
	needle := strings.ToLower(q)

	for _, s := range students {
		if needle == "" ||
			strings.Contains(strings.ToLower(s.Name), needle) ||
			strings.Contains(strings.ToLower(s.Email), needle) {
			matched = append(matched, s)
		}
	}

	return matched
}
