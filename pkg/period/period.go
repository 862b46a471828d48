// Package period models the inclusive year range a pipeline run covers.
package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPeriod is returned for a reversed or out-of-range year span.
var ErrInvalidPeriod = errors.New("invalid period")

const (
	DefaultStart = 2006
	DefaultEnd   = 2017

	minYear = 1900
	maxYear = 2100
)

// Period is an inclusive range of calendar years.
type Period struct {
	Start int `yaml:"start" json:"start"`
	End   int `yaml:"end" json:"end"`
}

// New validates and returns the period [start, end].
func New(start, end int) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Default returns the 2006 to 2017 period.
func Default() Period {
	return Period{Start: DefaultStart, End: DefaultEnd}
}

// Parse reads "2010" or "2006_2017".
func Parse(s string) (Period, error) {
	startStr, endStr, found := strings.Cut(strings.TrimSpace(s), "_")
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q is not a year", ErrInvalidPeriod, startStr)
	}
	end := start
	if found {
		if end, err = strconv.Atoi(endStr); err != nil {
			return Period{}, fmt.Errorf("%w: %q is not a year", ErrInvalidPeriod, endStr)
		}
	}
	return New(start, end)
}

// Validate rejects reversed or implausible ranges.
func (p Period) Validate() error {
	if p.Start > p.End {
		return fmt.Errorf("%w: start %d is after end %d", ErrInvalidPeriod, p.Start, p.End)
	}
	if p.Start < minYear || p.End > maxYear {
		return fmt.Errorf("%w: %d..%d outside [%d, %d]", ErrInvalidPeriod, p.Start, p.End, minYear, maxYear)
	}
	return nil
}

// Years lists every year of the period in ascending order.
func (p Period) Years() []int {
	years := make([]int, 0, p.Len())
	for y := p.Start; y <= p.End; y++ {
		years = append(years, y)
	}
	return years
}

// Len is the number of years in the period.
func (p Period) Len() int {
	if p.End < p.Start {
		return 0
	}
	return p.End - p.Start + 1
}

// Contains reports whether year lies in the period.
func (p Period) Contains(year int) bool {
	return year >= p.Start && year <= p.End
}

// Index returns the zero-based offset of year, or -1.
func (p Period) Index(year int) int {
	if !p.Contains(year) {
		return -1
	}
	return year - p.Start
}

// String renders the period as it appears in artifact names.
func (p Period) String() string {
	return fmt.Sprintf("%d_%d", p.Start, p.End)
}
