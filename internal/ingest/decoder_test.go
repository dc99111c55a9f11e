package ingest

import (
	"strings"
	"testing"

	"gradeboard/internal/shared"
)

func TestDecode(t *testing.T) {
	t.Run("empty input fails with format error", func(t *testing.T) {
		_, err := Decode(strings.NewReader(""))
		if err == nil {
			t.Fatal("expected an error for empty input")
		}
		if shared.KindOf(err) != shared.KindFormat {
			t.Errorf("expected format error, got kind %v", shared.KindOf(err))
		}
	})

	t.Run("header-only input yields zero rows", func(t *testing.T) {
		rows, err := Decode(strings.NewReader("Name,Email,Subject,Marks\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("expected 0 rows, got %d", len(rows))
		}
	})

	t.Run("values align with header columns", func(t *testing.T) {
		input := "Name,Email,Subject,Marks\nAlice,alice@example.com,Math,90\n"
		rows, err := Decode(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		if rows[0]["Name"] != "Alice" || rows[0]["Marks"] != "90" {
			t.Errorf("unexpected row contents: %v", rows[0])
		}
	})

	t.Run("short rows pad missing columns with empty strings", func(t *testing.T) {
		input := "Name,Email,Subject\nBob,bob@example.com\n"
		rows, err := Decode(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, ok := rows[0]["Subject"]; !ok || got != "" {
			t.Errorf("expected empty Subject present, got %q (present=%t)", got, ok)
		}
	})

	t.Run("long rows drop surplus fields", func(t *testing.T) {
		input := "Name,Email\nCara,cara@example.com,extra,fields\n"
		rows, err := Decode(strings.NewReader(input))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows[0]) != 2 {
			t.Errorf("expected 2 columns, got %d: %v", len(rows[0]), rows[0])
		}
	})

	t.Run("broken quoting fails with format error", func(t *testing.T) {
		input := "Name,Email\n\"unterminated,quote@example.com\n"
		_, err := Decode(strings.NewReader(input))
		if err == nil {
			t.Fatal("expected an error for broken quoting")
		}
		if shared.KindOf(err) != shared.KindFormat {
			t.Errorf("expected format error, got kind %v", shared.KindOf(err))
		}
	})
}
