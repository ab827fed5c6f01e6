package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
)

// SortField selects the column used to order the section table.
type SortField string

// Section table sort fields.
const (
	SortByName     SortField = "name"
	SortByTotal    SortField = "total"
	SortByOccupied SortField = "occupied"
	SortByRate     SortField = "rate"
)

// ParseSortField validates a sort field; "" selects rate.
func ParseSortField(raw string) (SortField, error) {
	switch f := SortField(strings.ToLower(raw)); f {
	case "":
		return SortByRate, nil
	case SortByName, SortByTotal, SortByOccupied, SortByRate:
		return f, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", raw)
	}
}

// Filter keeps sections whose display name contains term, case-insensitively.
// An empty term keeps everything.
func Filter(sections []SectionStat, term string) []SectionStat {
	out := make([]SectionStat, 0, len(sections))
	term = strings.ToLower(strings.TrimSpace(term))
	for _, s := range sections {
		if term == "" || strings.Contains(strings.ToLower(s.DisplayName), term) {
			out = append(out, s)
		}
	}
	return out
}

// Sort returns a copy of sections ordered by field. Ties keep input order.
func Sort(sections []SectionStat, field SortField, descending bool) []SectionStat {
	out := append([]SectionStat(nil), sections...)

	less := func(a, b SectionStat) bool {
		switch field {
		case SortByName:
			return a.DisplayName < b.DisplayName
		case SortByTotal:
			return a.Total < b.Total
		case SortByOccupied:
			return a.Occupied < b.Occupied
		default:
			return a.Rate < b.Rate
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// FilterByStatus returns the plots whose resolved status equals status.
// An empty status returns every plot.
func FilterByStatus(plots []models.Feature, status models.Status) []models.Feature {
	out := make([]models.Feature, 0, len(plots))
	for _, f := range plots {
		if status == "" || resolver.ResolveStatus(f.Properties) == status {
			out = append(out, f)
		}
	}
	return out
}
