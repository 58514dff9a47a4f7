package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports/mocks"
)

type staticSnapshot struct {
	cat *domain.Catalog
}

func (s staticSnapshot) Snapshot() *domain.Catalog { return s.cat }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func products(ms []domain.Material) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Product
	}
	return out
}

func TestFilter_Scenarios(t *testing.T) {
	cat := mocks.ReferenceCatalog()
	today := date(2026, 1, 1)

	tests := []struct {
		name   string
		query  string
		facets domain.Facets
		want   []string
	}{
		{
			name: "empty query and facets returns everything in order",
			want: []string{"Terrascorata brick", "Ultrasint® TPU 64D", "Quantum Carbon", "White 3D xiate"},
		},
		{
			name:   "valid only excludes expired",
			facets: domain.Facets{ValidOnly: true},
			want:   []string{"Terrascorata brick", "Ultrasint® TPU 64D", "White 3D xiate"},
		},
		{
			name:  "query matches characteristics",
			query: "tpu",
			want:  []string{"Ultrasint® TPU 64D"},
		},
		{
			name:  "query is case-insensitive",
			query: "QUANTUM",
			want:  []string{"Quantum Carbon"},
		},
		{
			name:  "query matches license",
			query: "laser",
			want:  []string{"White 3D xiate"},
		},
		{
			name:  "query matches certification",
			query: "fda",
			want:  []string{"White 3D xiate"},
		},
		{
			name:  "query without match",
			query: "titanium",
			want:  []string{},
		},
		{
			name:   "certification facet",
			facets: domain.Facets{Certifications: []string{"ISO 9001"}},
			want:   []string{"Terrascorata brick", "White 3D xiate"},
		},
		{
			name:   "certification facet is an intersection test",
			facets: domain.Facets{Certifications: []string{"RoHS", "UL 94 V-0"}},
			want:   []string{"Ultrasint® TPU 64D", "Quantum Carbon"},
		},
		{
			name:   "color facet",
			facets: domain.Facets{Colors: []string{"White", "Orange"}},
			want:   []string{"Terrascorata brick", "White 3D xiate"},
		},
		{
			name:   "manufacturer facet",
			facets: domain.Facets{Manufacturers: []string{"Quantum"}},
			want:   []string{"Quantum Carbon"},
		},
		{
			name:   "unknown facet value yields nothing",
			facets: domain.Facets{Colors: []string{"Purple"}},
			want:   []string{},
		},
		{
			name:   "facets are exact",
			facets: domain.Facets{Colors: []string{"white"}},
			want:   []string{},
		},
		{
			name:   "all steps are conjunctive",
			query:  "sls",
			facets: domain.Facets{Certifications: []string{"ISO 9001"}, ValidOnly: true},
			want:   []string{"Terrascorata brick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := products(Filter(cat, tt.query, tt.facets, today))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_ValidOnlyBoundary(t *testing.T) {
	cat := mocks.ReferenceCatalog()

	// Quantum Carbon expires 2025-12-31
	got := products(Filter(cat, "", domain.Facets{ValidOnly: true}, date(2025, 12, 31)))
	if len(got) != 4 {
		t.Errorf("on the expiry day all 4 materials should be valid, got %v", got)
	}

	late := time.Date(2025, 12, 31, 23, 59, 59, 0, time.Local)
	if n := len(Filter(cat, "", domain.Facets{ValidOnly: true}, late)); n != 4 {
		t.Errorf("time of day should not matter, got %d results", n)
	}

	for _, m := range Filter(cat, "", domain.Facets{ValidOnly: true}, date(2026, 7, 1)) {
		if m.ValidUntil.Before(date(2026, 7, 1)) {
			t.Errorf("%s expired on %s but was returned", m.Product, m.GetDisplayDate())
		}
	}
}

func TestFilter_OrderIndependent(t *testing.T) {
	materials := mocks.ReferenceCatalog().Materials()
	today := date(2026, 1, 1)

	preds := []Predicate{
		InColors([]string{"Orange", "Gray", "White"}),
		FromManufacturers([]string{"3D Systems Floor", "Xiate Labs", "Quantum"}),
		HasAnyCertification([]string{"ISO 9001"}),
		ValidOn(today),
		MatchQuery("a"),
	}

	want := products(Apply(materials, preds...))

	reversed := make([]Predicate, len(preds))
	for i, p := range preds {
		reversed[len(preds)-1-i] = p
	}
	if got := products(Apply(materials, reversed...)); !reflect.DeepEqual(got, want) {
		t.Errorf("reversed predicates = %v, want %v", got, want)
	}

	// color then manufacturer == manufacturer then color
	a := Apply(Apply(materials, preds[0]), preds[1])
	b := Apply(Apply(materials, preds[1]), preds[0])
	if !reflect.DeepEqual(products(a), products(b)) {
		t.Errorf("color→manufacturer = %v, manufacturer→color = %v", products(a), products(b))
	}
}

func TestFilter_SubsetOfStore(t *testing.T) {
	cat := mocks.ReferenceCatalog()
	inStore := map[string]bool{}
	for _, m := range cat.Materials() {
		inStore[m.Product] = true
	}

	queries := []string{"", "a", "iso", "zz", "3D"}
	facets := []domain.Facets{
		{},
		{ValidOnly: true},
		{Colors: []string{"Gray", "Black"}},
		{Certifications: []string{"REACH", "ISO 10993"}, ValidOnly: true},
	}

	for _, q := range queries {
		for _, f := range facets {
			got := Filter(cat, q, f, date(2026, 3, 1))
			if len(got) > cat.Len() {
				t.Fatalf("Filter(%q, %+v) returned more than the store", q, f)
			}
			for _, m := range got {
				if !inStore[m.Product] {
					t.Errorf("Filter(%q, %+v) fabricated %q", q, f, m.Product)
				}
			}
		}
	}
}

func TestFilter_DoesNotMutateSnapshot(t *testing.T) {
	cat := mocks.ReferenceCatalog()
	got := Filter(cat, "", domain.Facets{}, date(2026, 1, 1))
	got[0].Certifications[0] = "changed"
	got[0].Product = "changed"

	if cat.At(0).Product != "Terrascorata brick" || cat.At(0).Certifications[0] != "ISO 9001" {
		t.Error("Filter results share memory with the snapshot")
	}
}

func TestBuildPredicates_OnlyActive(t *testing.T) {
	today := date(2026, 1, 1)
	tests := []struct {
		name   string
		query  string
		facets domain.Facets
		want   int
	}{
		{name: "empty selection", want: 0},
		{name: "query only", query: "x", want: 1},
		{name: "valid only", facets: domain.Facets{ValidOnly: true}, want: 1},
		{
			name:  "full selection",
			query: "x",
			facets: domain.Facets{
				Colors:         []string{"Gray"},
				Manufacturers:  []string{"Quantum"},
				Certifications: []string{"RoHS"},
				ValidOnly:      true,
			},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if n := len(BuildPredicates(tt.query, tt.facets, today)); n != tt.want {
				t.Errorf("built %d predicates, want %d", n, tt.want)
			}
		})
	}
}

func TestHasAnyCertification(t *testing.T) {
	m := domain.Material{Product: "Quantum Carbon", Certifications: []string{"UL 94 V-0", "RoHS"}}
	tests := []struct {
		certs []string
		want  bool
	}{
		{[]string{"RoHS"}, true},
		{[]string{"ISO 9001", "UL 94 V-0"}, true},
		{[]string{"rohs"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := HasAnyCertification(tt.certs)(m); got != tt.want {
			t.Errorf("HasAnyCertification(%v) = %v, want %v", tt.certs, got, tt.want)
		}
	}
}

func TestSearchCertifications(t *testing.T) {
	links := CertificationLinks(mocks.ReferenceCatalog())

	got := SearchCertifications(links, "iso")
	var certs []string
	for _, l := range got {
		certs = append(certs, l.Product+"/"+l.Certification)
	}
	want := []string{
		"Terrascorata brick/ISO 9001",
		"Ultrasint® TPU 64D/ISO 10993",
		"White 3D xiate/ISO 9001",
	}
	if !reflect.DeepEqual(certs, want) {
		t.Errorf("SearchCertifications(iso) = %v, want %v", certs, want)
	}

	if n := len(SearchCertifications(links, "")); n != len(links) {
		t.Errorf("empty query returned %d rows, want %d", n, len(links))
	}
	if n := len(SearchCertifications(links, "tpu")); n != 0 {
		t.Errorf("search must only look at the certification column, got %d rows", n)
	}
}

func TestFilterService_Execute(t *testing.T) {
	svc := NewFilterService(staticSnapshot{cat: mocks.ReferenceCatalog()})

	resp, err := svc.Execute(context.Background(), FilterRequest{
		Facets: domain.Facets{ValidOnly: true},
		Today:  time.Date(2026, 1, 1, 15, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if resp.Total != 3 || resp.Of != 4 {
		t.Errorf("Total/Of = %d/%d, want 3/4", resp.Total, resp.Of)
	}
	if !resp.Today.Equal(date(2026, 1, 1)) {
		t.Errorf("Today = %v, want calendar date 2026-01-01", resp.Today)
	}

	certs, err := svc.Certifications(context.Background(), "REACH")
	if err != nil {
		t.Fatalf("Certifications failed: %v", err)
	}
	if certs.Total != 1 || certs.Links[0].Product != "Terrascorata brick" {
		t.Errorf("Certifications(REACH) = %+v", certs.Links)
	}
}

func TestFilterService_NotLoaded(t *testing.T) {
	svc := NewFilterService(staticSnapshot{})
	if _, err := svc.Execute(context.Background(), FilterRequest{}); !errors.Is(err, domain.ErrCatalogNotLoaded) {
		t.Errorf("Execute error = %v, want ErrCatalogNotLoaded", err)
	}
	if _, err := svc.Certifications(context.Background(), ""); !errors.Is(err, domain.ErrCatalogNotLoaded) {
		t.Errorf("Certifications error = %v, want ErrCatalogNotLoaded", err)
	}
}
