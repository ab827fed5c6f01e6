package style

import (
	"fmt"
	"time"

	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
)

// DefaultMinYear is the lower timeline bound when no plot has a usable year.
const DefaultMinYear = 1900

// Range is an inclusive year range.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year lies within the range, bounds included.
func (r Range) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// Validate rejects inverted ranges.
func (r Range) Validate() error {
	if r.From > r.To {
		return fmt.Errorf("year range start %d is after end %d", r.From, r.To)
	}
	return nil
}

// Requested builds the filter range from optional user bounds. A missing
// side comes from bounds, widened so that the supplied side never inverts
// the range. The result is not limited to bounds: a range outside the
// data's years simply matches no plot.
func Requested(bounds Range, from, to *int) (Range, error) {
	r := bounds
	switch {
	case from != nil && to != nil:
		r = Range{From: *from, To: *to}
	case from != nil:
		r.From = *from
		if r.To < r.From {
			r.To = r.From
		}
	case to != nil:
		r.To = *to
		if r.From > r.To {
			r.From = r.To
		}
	}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// YearBounds returns the span of trusted burial years among plots, or
// [1900, current year] when no plot has one.
func YearBounds(plots []models.Feature, now time.Time) Range {
	bounds := Range{From: now.Year(), To: resolver.MinBurialYear}
	found := false
	for _, f := range plots {
		year, ok := resolver.TrustedBurialYear(f.Properties, now)
		if !ok {
			continue
		}
		found = true
		if year < bounds.From {
			bounds.From = year
		}
		if year > bounds.To {
			bounds.To = year
		}
	}
	if !found {
		return Range{From: DefaultMinYear, To: now.Year()}
	}
	return bounds
}
