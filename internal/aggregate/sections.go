// Package aggregate computes occupancy statistics over the effective plot
// collection.
package aggregate

import (
	"sort"
	"strings"
	"sync"

	"github.com/stwalsh4118/plotpilot/api/internal/models"
	"github.com/stwalsh4118/plotpilot/api/internal/resolver"
)

// Ranking thresholds for the top-sections view.
const (
	RankMinTotal = 5
	RankLimit    = 5
)

// SectionStat holds occupancy counts for one normalized section.
type SectionStat struct {
	Key         string  `json:"key"`
	DisplayName string  `json:"displayName"`
	Total       int     `json:"total"`
	Occupied    int     `json:"occupied"`
	Rate        float64 `json:"rate"`
}

// Stats is the result of one aggregation pass.
type Stats struct {
	BurialTypes map[string]int `json:"burialTypes"`
	Sections    []SectionStat  `json:"sections"`
	Top         []SectionStat  `json:"topSections"`
	Total       int            `json:"total"`
	Occupied    int            `json:"occupied"`
	Available   int            `json:"available"`
	Reserved    int            `json:"reserved"`
}

// NormalizeSectionKey uppercases raw and strips everything that is not an
// ASCII letter or digit, so "St. Leo's" and "STLEOS" group together.
func NormalizeSectionKey(raw string) string {
	upper := strings.ToUpper(raw)
	var b strings.Builder
	b.Grow(len(upper))
	for i := 0; i < len(upper); i++ {
		c := upper[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Aggregate counts statuses, burial types and per-section occupancy in a
// single pass over plots. Sections are returned in first-seen order and each
// keeps the first raw label observed as its display name.
func Aggregate(plots []models.Feature) Stats {
	stats := Stats{
		BurialTypes: make(map[string]int),
		Total:       len(plots),
	}

	index := make(map[string]int)
	for i := range plots {
		props := plots[i].Properties
		status := resolver.ResolveStatus(props)

		switch status {
		case models.StatusOccupied:
			stats.Occupied++
			if bt := resolver.BurialType(props); bt != "" {
				stats.BurialTypes[bt]++
			}
		case models.StatusReserved:
			stats.Reserved++
		}

		raw := resolver.SectionName(props)
		key := NormalizeSectionKey(raw)
		pos, seen := index[key]
		if !seen {
			pos = len(stats.Sections)
			index[key] = pos
			stats.Sections = append(stats.Sections, SectionStat{Key: key, DisplayName: raw})
		}
		stats.Sections[pos].Total++
		if status == models.StatusOccupied {
			stats.Sections[pos].Occupied++
		}
	}

	for i := range stats.Sections {
		s := &stats.Sections[i]
		if s.Total > 0 {
			s.Rate = float64(s.Occupied) / float64(s.Total)
		}
	}

	stats.Available = stats.Total - stats.Occupied - stats.Reserved
	if stats.Sections == nil {
		stats.Sections = []SectionStat{}
	}
	stats.Top = Rank(stats.Sections, RankMinTotal, RankLimit)
	return stats
}

// Rank returns at most limit sections with at least minTotal plots, ordered
// by occupancy rate and then occupied count, both descending.
func Rank(sections []SectionStat, minTotal, limit int) []SectionStat {
	ranked := make([]SectionStat, 0, len(sections))
	for _, s := range sections {
		if s.Total >= minTotal && s.Total > 0 {
			ranked = append(ranked, s)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Rate == ranked[j].Rate {
			return ranked[i].Occupied > ranked[j].Occupied
		}
		return ranked[i].Rate > ranked[j].Rate
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Cache memoises Aggregate against the repository version that produced the
// plot collection. Any version change forces a recount.
type Cache struct {
	mu      sync.Mutex
	stats   Stats
	version uint64
	valid   bool
}

// Get returns cached stats for version, computing them from plots on a miss.
// The returned value is shared; callers must not modify it.
func (c *Cache) Get(version uint64, plots []models.Feature) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.version == version {
		return c.stats
	}
	c.stats = Aggregate(plots)
	c.version = version
	c.valid = true
	return c.stats
}

// Invalidate drops the cached result.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
