package services

import (
	"fmt"
	"strings"
	"time"
)

// DateValue accepts either a bare date ("2006-01-02") or a full RFC 3339
// timestamp in JSON payloads. Form pickers send the former, API clients the
// latter.
type DateValue struct {
	time.Time
}

func (d *DateValue) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d DateValue) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Time.Format(time.RFC3339) + `"`), nil
}

// TimePtr returns nil for a zero date so optional fields stay NULL in the DB.
func (d *DateValue) TimePtr() *time.Time {
	if d == nil || d.Time.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
