package services

import (
	"sort"
	"strings"

	"github.com/amhub/dataworld/internal/core/domain"
)

// DefaultWebsite is the placeholder shown for manufacturers without a known website
const DefaultWebsite = "https://example.com"

// WebsiteDirectory maps manufacturer names to websites.
// Names missing from Overrides get Default (DefaultWebsite when empty).
type WebsiteDirectory struct {
	Default   string
	Overrides map[string]string
}

// Lookup returns the website for name and whether the default was used
func (d WebsiteDirectory) Lookup(name string) (string, bool) {
	if site := strings.TrimSpace(d.Overrides[name]); site != "" {
		return site, false
	}
	if d.Default != "" {
		return d.Default, true
	}
	return DefaultWebsite, true
}

// Manufacturers returns the distinct manufacturers of cat in first-occurrence order
func Manufacturers(cat *domain.Catalog, dir WebsiteDirectory) []domain.Manufacturer {
	index := make(map[string]int)
	var out []domain.Manufacturer

	for i := 0; i < cat.Len(); i++ {
		name := cat.At(i).Manufacturer
		if pos, ok := index[name]; ok {
			out[pos].Materials++
			continue
		}
		site, defaulted := dir.Lookup(name)
		index[name] = len(out)
		out = append(out, domain.Manufacturer{
			Name:             name,
			Website:          site,
			WebsiteDefaulted: defaulted,
			Materials:        1,
			Flagged:          cat.IsFlaggedManufacturer(name),
		})
	}
	return out
}

// CertificationLinks explodes every material into one row per certification,
// in material order then certification order
func CertificationLinks(cat *domain.Catalog) []domain.CertificationLink {
	var out []domain.CertificationLink
	for i := 0; i < cat.Len(); i++ {
		m := cat.At(i)
		for _, c := range m.Certifications {
			out = append(out, domain.CertificationLink{
				Product:       m.Product,
				Manufacturer:  m.Manufacturer,
				Certification: c,
			})
		}
	}
	return out
}

// FacetOptionsOf lists the selectable facet values present in cat.
// Colors and manufacturers keep first-occurrence order, certifications are sorted.
func FacetOptionsOf(cat *domain.Catalog) domain.FacetOptions {
	opts := domain.FacetOptions{
		Colors:         []string{},
		Manufacturers:  []string{},
		Certifications: []string{},
	}
	seenColor := map[string]bool{}
	seenMfr := map[string]bool{}
	seenCert := map[string]bool{}

	for i := 0; i < cat.Len(); i++ {
		m := cat.At(i)
		if m.Color != "" && !seenColor[m.Color] {
			seenColor[m.Color] = true
			opts.Colors = append(opts.Colors, m.Color)
		}
		if !seenMfr[m.Manufacturer] {
			seenMfr[m.Manufacturer] = true
			opts.Manufacturers = append(opts.Manufacturers, m.Manufacturer)
		}
		for _, c := range m.Certifications {
			if !seenCert[c] {
				seenCert[c] = true
				opts.Certifications = append(opts.Certifications, c)
			}
		}
	}
	sort.Strings(opts.Certifications)
	return opts
}
