package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned while decoding a request whose date field cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// dateTimeLayouts lists the accepted due date formats, most specific first.
// Values without a zone are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime accepts RFC 3339 plus the bare date and datetime-local forms browsers send.
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// DateTime is a request timestamp that tolerates several input formats.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: expected a string", ErrInvalidDate)
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// OptionalDateTime tells an absent field apart from an explicit null, which clears the date.
type OptionalDateTime struct {
	Set   bool
	Value *time.Time
}

func (o *OptionalDateTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var d DateTime
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	o.Value = &d.Time
	return nil
}

// PageMeta mirrors the paginator fields the frontend reads.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// ValidationMessages lets a request override the default message for a field/rule pair,
// keyed as "field.rule" (for example "title.required").
type ValidationMessages interface {
	ValidationMessages() map[string]string
}
