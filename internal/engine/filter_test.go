package engine

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonthFilter(t *testing.T) {
	tests := []struct {
		input string
		want  MonthFilter
		err   error
	}{
		{"", AllMonths, nil},
		{"All", AllMonths, nil},
		{"all", AllMonths, nil},
		{"1", Month(time.January), nil},
		{"12", Month(time.December), nil},
		{"January", Month(time.January), nil},
		{"january", Month(time.January), nil},
		{"DECEMBER", Month(time.December), nil},
		{"  March ", Month(time.March), nil},
		{"0", MonthFilter{}, ErrInvalidMonthFilter},
		{"13", MonthFilter{}, ErrInvalidMonthFilter},
		{"-1", MonthFilter{}, ErrInvalidMonthFilter},
		{"Jan", MonthFilter{}, ErrInvalidMonthFilter},
		{"month", MonthFilter{}, ErrInvalidMonthFilter},
	}

	for _, tt := range tests {
		got, err := ParseMonthFilter(tt.input)
		if !errors.Is(err, tt.err) {
			t.Errorf("ParseMonthFilter(%q) error = %v, want %v", tt.input, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMonthFilter(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseYearFilter(t *testing.T) {
	tests := []struct {
		input string
		want  YearFilter
		err   error
	}{
		{"", AllYears, nil},
		{"All", AllYears, nil},
		{"2024", Year(2024), nil},
		{" 1999 ", Year(1999), nil},
		{"0", YearFilter{}, ErrInvalidYearFilter},
		{"-3", YearFilter{}, ErrInvalidYearFilter},
		{"twenty24", YearFilter{}, ErrInvalidYearFilter},
	}

	for _, tt := range tests {
		got, err := ParseYearFilter(tt.input)
		if !errors.Is(err, tt.err) {
			t.Errorf("ParseYearFilter(%q) error = %v, want %v", tt.input, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseYearFilter(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMonthFilterMatches(t *testing.T) {
	if !AllMonths.Matches(7) {
		t.Error("disabled filter must match every month")
	}
	jan := Month(time.January)
	if !jan.Matches(1) {
		t.Error("January filter must match month 1")
	}
	if jan.Matches(2) {
		t.Error("January filter must not match month 2")
	}
}

func TestFilterString(t *testing.T) {
	if got := AllMonths.String(); got != FilterAll {
		t.Errorf("AllMonths.String() = %s, want %s", got, FilterAll)
	}
	if got := Month(time.May).String(); got != "May" {
		t.Errorf("Month(May).String() = %s, want May", got)
	}
	if got := Year(2024).String(); got != "2024" {
		t.Errorf("Year(2024).String() = %s, want 2024", got)
	}
	if got := AllYears.String(); got != FilterAll {
		t.Errorf("AllYears.String() = %s, want %s", got, FilterAll)
	}
}
