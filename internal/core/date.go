package core

import (
	"errors"
	"time"
)

// CanonicalDateLayout is the single textual form the store writes.
const CanonicalDateLayout = "2006-01-02"

// dateLayouts are the accepted input forms, tried in order.
var dateLayouts = []string{
	CanonicalDateLayout, // YYYY-MM-DD
	"02-01-2006",        // DD-MM-YYYY
}

var (
	ErrZeroDate        = errors.New("date cannot be zero")
	ErrUnparseableDate = errors.New("unparseable date")
)

type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a textual date tolerantly: the canonical YYYY-MM-DD
// form first, then DD-MM-YYYY. A string matching neither returns
// ErrUnparseableDate; callers decide per-aggregate whether that excludes
// the row.
func ParseDate(s string) (Date, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, ErrUnparseableDate
}

// String returns the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(CanonicalDateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}
