package dashboard

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	hoursInDay = 24
)

// Date is a calendar date without time of day. The zero Date means the value is missing.
type Date struct {
	value time.Time
}

// NewDate builds a Date from its calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{value: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	year, month, day := t.Date()
	return NewDate(year, month, day)
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp (the date part is kept).
func ParseDate(raw string) (Date, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Date{}, nil
	}
	if parsed, err := time.Parse(dateLayout, trimmed); err == nil {
		return DateOf(parsed), nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, trimmed)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, trimmed)
	}
	return DateOf(parsed), nil
}

// IsZero reports whether the date is missing.
func (date Date) IsZero() bool {
	return date.value.IsZero()
}

// Time returns midnight UTC of the date.
func (date Date) Time() time.Time {
	return date.value
}

// Before reports whether date falls strictly before other.
func (date Date) Before(other Date) bool {
	return date.value.Before(other.value)
}

// After reports whether date falls strictly after other.
func (date Date) After(other Date) bool {
	return date.value.After(other.value)
}

// AddDays shifts the date by n calendar days.
func (date Date) AddDays(n int) Date {
	if date.IsZero() {
		return date
	}
	return Date{value: date.value.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from date to other (negative when other is earlier).
func (date Date) DaysUntil(other Date) int {
	return int(other.value.Sub(date.value).Hours() / hoursInDay)
}

func (date Date) String() string {
	if date.IsZero() {
		return ""
	}
	return date.value.Format(dateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when missing.
func (date Date) MarshalJSON() ([]byte, error) {
	if date.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(date.String())
}

// UnmarshalJSON accepts null, "" and any value ParseDate accepts.
func (date *Date) UnmarshalJSON(raw []byte) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*date = Date{}
		return nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, raw)
	}
	parsed, err := ParseDate(text)
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}

// Scan implements sql.Scanner for DATE, DATETIME and textual columns.
func (date *Date) Scan(source any) error {
	switch value := source.(type) {
	case nil:
		*date = Date{}
		return nil
	case time.Time:
		*date = DateOf(value)
		return nil
	case string:
		parsed, err := ParseDate(value)
		if err != nil {
			return err
		}
		*date = parsed
		return nil
	case []byte:
		parsed, err := ParseDate(string(value))
		if err != nil {
			return err
		}
		*date = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidDate, source)
	}
}

// Value implements driver.Valuer.
func (date Date) Value() (driver.Value, error) {
	if date.IsZero() {
		return nil, nil
	}
	return date.value, nil
}
