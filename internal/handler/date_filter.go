package handler

import (
	"net/http"
	"time"

	"github.com/Dramirezponce/walkergestion-sub000/internal/domain"
)

// dateLayout is the wire format for calendar dates (sale dates, expense
// dates, export filters).
const dateLayout = "2006-01-02"

// parseDateQuery reads an optional YYYY-MM-DD query parameter; absent means
// no filter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, domain.ValidationErrorf(key, "must be a YYYY-MM-DD date")
	}
	return &parsed, nil
}

// parseDateField parses a YYYY-MM-DD request body field, defaulting to today
// when it is empty. A malformed value is rejected rather than silently
// replaced.
func parseDateField(field, value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.ValidationErrorf(field, "must be a YYYY-MM-DD date")
	}
	return parsed, nil
}
