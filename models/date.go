package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date is a nullable timestamp tolerant of the several formats the clinic
// API emits (RFC3339, naive ISO and date-only).
type Date struct {
	time.Time
}

func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

// ParseDate parses value with the accepted layouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// Valid reports whether d is non-nil and set.
func (d *Date) Valid() bool {
	return d != nil && !d.IsZero()
}

// Day returns d's calendar date for day-level comparisons.
func (d *Date) Day() time.Time {
	return StartOfDay(d.Time)
}

// StartOfDay returns the calendar date of t, in t's own location, as UTC
// midnight so dates from different zones compare by day.
func StartOfDay(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
