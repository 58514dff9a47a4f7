package services

import (
	"sort"
	"time"

	"github.com/amhub/dataworld/internal/core/domain"
)

// Count is one bucket of a facet distribution
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CatalogStats summarizes a snapshot as of a given day
type CatalogStats struct {
	Today           time.Time         `json:"today"`
	Materials       int               `json:"materials"`
	Valid           int               `json:"valid"`
	Expired         int               `json:"expired"`
	ExpiringSoon    []domain.Material `json:"expiring_soon"`
	ByColor         []Count           `json:"by_color"`
	ByManufacturer  []Count           `json:"by_manufacturer"`
	ByCertification []Count           `json:"by_certification"`
	Flags           int               `json:"flags"`
}

// ComputeStats counts facet values and validity as of today.
// Materials expiring within horizon (inclusive) are listed, soonest first.
func ComputeStats(cat *domain.Catalog, today time.Time, horizon time.Duration) CatalogStats {
	today = domain.DateOf(today)
	limit := today.Add(horizon)

	stats := CatalogStats{
		Today:     today,
		Materials: cat.Len(),
		Flags:     len(cat.Flags()),
	}

	colors := newCounter()
	mfrs := newCounter()
	certs := newCounter()

	for _, m := range cat.Materials() {
		colors.add(m.Color)
		mfrs.add(m.Manufacturer)
		for _, c := range m.Certifications {
			certs.add(c)
		}

		if m.IsValidOn(today) {
			stats.Valid++
			if !m.ValidUntil.After(limit) {
				stats.ExpiringSoon = append(stats.ExpiringSoon, m)
			}
		} else {
			stats.Expired++
		}
	}

	sort.SliceStable(stats.ExpiringSoon, func(i, j int) bool {
		return stats.ExpiringSoon[i].ValidUntil.Before(stats.ExpiringSoon[j].ValidUntil)
	})

	stats.ByColor = colors.sorted()
	stats.ByManufacturer = mfrs.sorted()
	stats.ByCertification = certs.sorted()
	return stats
}

type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(label string) {
	if label == "" {
		label = "(none)"
	}
	if _, ok := c.counts[label]; !ok {
		c.order = append(c.order, label)
	}
	c.counts[label]++
}

// sorted returns buckets by descending count, ties in first-occurrence order
func (c *counter) sorted() []Count {
	out := make([]Count, len(c.order))
	for i, label := range c.order {
		out[i] = Count{Label: label, Count: c.counts[label]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
