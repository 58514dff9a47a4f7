package services

import (
	"context"
	"strings"
	"time"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
)

// Predicate decides whether a material stays in the result set
type Predicate func(domain.Material) bool

// MatchQuery matches a case-insensitive substring of the product, license,
// manufacturer, characteristics or any certification
func MatchQuery(query string) Predicate {
	q := strings.ToLower(query)
	return func(m domain.Material) bool {
		if q == "" {
			return true
		}
		for _, field := range []string{m.Product, m.LicenseISO, m.Manufacturer, m.Characteristics} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		for _, c := range m.Certifications {
			if strings.Contains(strings.ToLower(c), q) {
				return true
			}
		}
		return false
	}
}

// InColors keeps materials whose color is one of colors
func InColors(colors []string) Predicate {
	set := toSet(colors)
	return func(m domain.Material) bool {
		_, ok := set[m.Color]
		return ok
	}
}

// FromManufacturers keeps materials made by one of names
func FromManufacturers(names []string) Predicate {
	set := toSet(names)
	return func(m domain.Material) bool {
		_, ok := set[m.Manufacturer]
		return ok
	}
}

// HasAnyCertification keeps materials sharing at least one certification with certs
func HasAnyCertification(certs []string) Predicate {
	return func(m domain.Material) bool {
		for _, c := range certs {
			if m.HasCertification(c) {
				return true
			}
		}
		return false
	}
}

// ValidOn keeps materials still valid on today (inclusive)
func ValidOn(today time.Time) Predicate {
	return func(m domain.Material) bool {
		return m.IsValidOn(today)
	}
}

// BuildPredicates returns only the predicates that actually narrow the result
func BuildPredicates(query string, facets domain.Facets, today time.Time) []Predicate {
	if query == "" && facets.IsEmpty() {
		return nil
	}
	var preds []Predicate
	if query != "" {
		preds = append(preds, MatchQuery(query))
	}
	if len(facets.Colors) > 0 {
		preds = append(preds, InColors(facets.Colors))
	}
	if len(facets.Manufacturers) > 0 {
		preds = append(preds, FromManufacturers(facets.Manufacturers))
	}
	if len(facets.Certifications) > 0 {
		preds = append(preds, HasAnyCertification(facets.Certifications))
	}
	if facets.ValidOnly {
		preds = append(preds, ValidOn(today))
	}
	return preds
}

// Apply keeps the materials matching every predicate, preserving order
func Apply(materials []domain.Material, preds ...Predicate) []domain.Material {
	out := make([]domain.Material, 0, len(materials))
next:
	for _, m := range materials {
		for _, p := range preds {
			if !p(m) {
				continue next
			}
		}
		out = append(out, m)
	}
	return out
}

// Filter returns the materials of cat matching query and facets, in store order
func Filter(cat *domain.Catalog, query string, facets domain.Facets, today time.Time) []domain.Material {
	return Apply(cat.Materials(), BuildPredicates(query, facets, today)...)
}

// SearchCertifications keeps links whose certification contains query (case-insensitive)
func SearchCertifications(links []domain.CertificationLink, query string) []domain.CertificationLink {
	q := strings.ToLower(query)
	out := make([]domain.CertificationLink, 0, len(links))
	for _, l := range links {
		if q == "" || strings.Contains(strings.ToLower(l.Certification), q) {
			out = append(out, l)
		}
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// FilterService binds the filter engine to the current catalog snapshot
type FilterService struct {
	catalog ports.SnapshotProvider
}

// NewFilterService creates a new filter service
func NewFilterService(catalog ports.SnapshotProvider) *FilterService {
	return &FilterService{catalog: catalog}
}

// FilterRequest represents a materials query
type FilterRequest struct {
	Query  string
	Facets domain.Facets
	Today  time.Time // zero means the current local date
}

// FilterResponse represents the filtered materials
type FilterResponse struct {
	Materials []domain.Material
	Total     int // number of matches
	Of        int // size of the snapshot the query ran against
	Today     time.Time
}

// Execute runs the query against one snapshot
func (s *FilterService) Execute(ctx context.Context, req FilterRequest) (*FilterResponse, error) {
	cat := s.catalog.Snapshot()
	if cat == nil {
		return nil, domain.ErrCatalogNotLoaded
	}

	today := req.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = domain.DateOf(today)

	materials := Filter(cat, req.Query, req.Facets, today)
	return &FilterResponse{
		Materials: materials,
		Total:     len(materials),
		Of:        cat.Len(),
		Today:     today,
	}, nil
}

// CertificationSearchResponse holds the certification rows matching a query
type CertificationSearchResponse struct {
	Links []domain.CertificationLink
	Total int
}

// Certifications searches the certification link view of the current snapshot
func (s *FilterService) Certifications(ctx context.Context, query string) (*CertificationSearchResponse, error) {
	cat := s.catalog.Snapshot()
	if cat == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	links := SearchCertifications(CertificationLinks(cat), query)
	return &CertificationSearchResponse{Links: links, Total: len(links)}, nil
}
