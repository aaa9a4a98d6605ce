package engine

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// FilterAll is the sentinel selector value that disables a filter axis.
const FilterAll = "All"

var (
	ErrInvalidMonthFilter = errors.New("invalid month filter")
	ErrInvalidYearFilter  = errors.New("invalid year filter")
)

type (
	// MonthFilter restricts an aggregation to a single calendar month
	// across all years. The zero value matches everything.
	MonthFilter struct {
		month time.Month
		set   bool
	}

	// YearFilter restricts a listing to a single calendar year.
	// The zero value matches everything.
	YearFilter struct {
		year int
		set  bool
	}
)

// AllMonths is the disabled month filter.
var AllMonths = MonthFilter{}

// Month returns a filter for a single calendar month.
func Month(m time.Month) MonthFilter {
	return MonthFilter{month: m, set: true}
}

// ParseMonthFilter normalizes a selector value. "All" (or empty) disables
// the filter; otherwise a 1-12 number or a full English month name is
// accepted, case-insensitively.
func ParseMonthFilter(s string) (MonthFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, FilterAll) {
		return AllMonths, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return MonthFilter{}, ErrInvalidMonthFilter
		}
		return Month(time.Month(n)), nil
	}
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(s, m.String()) {
			return Month(m), nil
		}
	}
	return MonthFilter{}, ErrInvalidMonthFilter
}

// All reports whether the filter is disabled.
func (f MonthFilter) All() bool { return !f.set }

// Matches reports whether a month (1-12) passes the filter.
func (f MonthFilter) Matches(month int) bool {
	return !f.set || time.Month(month) == f.month
}

func (f MonthFilter) String() string {
	if !f.set {
		return FilterAll
	}
	return f.month.String()
}

// AllYears is the disabled year filter.
var AllYears = YearFilter{}

// Year returns a filter for a single calendar year.
func Year(y int) YearFilter {
	return YearFilter{year: y, set: true}
}

// ParseYearFilter normalizes a selector value. "All" (or empty) disables
// the filter; otherwise an exact numeric year is required.
func ParseYearFilter(s string) (YearFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, FilterAll) {
		return AllYears, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 {
		return YearFilter{}, ErrInvalidYearFilter
	}
	return Year(y), nil
}

// All reports whether the filter is disabled.
func (f YearFilter) All() bool { return !f.set }

// Matches reports whether a year passes the filter.
func (f YearFilter) Matches(year int) bool {
	return !f.set || year == f.year
}

func (f YearFilter) String() string {
	if !f.set {
		return FilterAll
	}
	return strconv.Itoa(f.year)
}
