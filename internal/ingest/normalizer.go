package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizedEntry is the canonical per-row record produced from one RawRow.
// MarksValid is false when a marks value was present but could not be
// parsed; the entry still carries the 0 default so storage never holds a
// non-numeric mark.
type NormalizedEntry struct {
	Name       string
	Email      string
	Subject    string
	Marks      int
	MarksValid bool
	ExamDate   time.Time
}

// Warning is a non-fatal data-quality diagnostic raised while normalizing
// a single row. It never aborts the batch.
type Warning struct {
	Field   string
	Message string
}

// fieldAliases lists the accepted header spellings per canonical field.
// Lookup is case-sensitive and the first matching alias wins.
var fieldAliases = map[string][]string{
	"name":     {"Name", "name"},
	"email":    {"Email", "email"},
	"subject":  {"Subject", "subject"},
	"marks":    {"Marks", "marks"},
	"examDate": {"Exam Date", "examDate"},
}

// examDateLayouts are tried in order when parsing the exam date column.
var examDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// Normalize maps one raw row onto a NormalizedEntry. It never fails:
// missing name/email/subject default to empty strings, unparseable or
// absent marks default to 0, and an unparseable or absent exam date
// defaults to now (the ingestion timestamp).
//
// Two conditions raise data-quality warnings: an empty subject, and a
// marks field that was present and non-empty but not a base-10 integer.
func Normalize(row RawRow, now time.Time) (NormalizedEntry, []Warning) {
	var warnings []Warning

	entry := NormalizedEntry{
		Name:       lookup(row, "name"),
		Email:      lookup(row, "email"),
		Subject:    lookup(row, "subject"),
		MarksValid: true,
		ExamDate:   now,
	}

	if entry.Subject == "" {
		warnings = append(warnings, Warning{
			Field:   "subject",
			Message: "subject is empty",
		})
	}

	marksRaw := strings.TrimSpace(lookup(row, "marks"))
	if marksRaw != "" {
		marks, err := strconv.Atoi(marksRaw)
		if err != nil || marks < 0 {
			entry.MarksValid = false
			warnings = append(warnings, Warning{
				Field:   "marks",
				Message: fmt.Sprintf("marks value %q is not a non-negative integer, defaulting to 0", marksRaw),
			})
		} else {
			entry.Marks = marks
		}
	}

	if dateRaw := strings.TrimSpace(lookup(row, "examDate")); dateRaw != "" {
		if parsed, ok := parseExamDate(dateRaw); ok {
			entry.ExamDate = parsed
		}
	}

	return entry, warnings
}

// lookup resolves a canonical field against the row's columns using the
// static alias table.
func lookup(row RawRow, field string) string {
	for _, alias := range fieldAliases[field] {
		if value, ok := row[alias]; ok && value != "" {
			return value
		}
	}
	return ""
}

func parseExamDate(raw string) (time.Time, bool) {
	for _, layout := range examDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
