package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
)

func TestParseDateField(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := parseDateField("date", "2025-03-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Format(dateLayout) != "2025-03-15" {
			t.Errorf("parsed %s, want 2025-03-15", got.Format(dateLayout))
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := parseDateField("date", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Format(dateLayout) != time.Now().Format(dateLayout) {
			t.Errorf("empty value parsed to %s, want today", got.Format(dateLayout))
		}
	})

	for _, bad := range []string{"15-03-2025", "2025/03/15", "not-a-date", "2025-13-40"} {
		t.Run("malformed "+bad, func(t *testing.T) {
			_, err := parseDateField("date", bad)
			if !domain.IsValidation(err) {
				t.Fatalf("parseDateField(%q): expected ValidationError, got %v", bad, err)
			}
		})
	}
}

func TestParseDateQuery(t *testing.T) {
	t.Run("absent means no filter", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/sales", nil)
		got, err := parseDateQuery(r, "startDate")
		if err != nil || got != nil {
			t.Fatalf("parseDateQuery = (%v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("valid value", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/sales?startDate=2025-03-01", nil)
		got, err := parseDateQuery(r, "startDate")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.Format(dateLayout) != "2025-03-01" {
			t.Errorf("parsed %v, want 2025-03-01", got)
		}
	})

	t.Run("malformed value", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/sales?startDate=March", nil)
		_, err := parseDateQuery(r, "startDate")
		if !domain.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}
