package services

import (
	"reflect"
	"testing"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports/mocks"
)

func TestManufacturers(t *testing.T) {
	records := mocks.ReferenceRecords()
	extra := records[0]
	extra.Product = "Terrascorata tile"
	records = append(records, extra)

	cat, _, err := domain.NewCatalog(records, domain.LoadOptions{})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	got := Manufacturers(cat, WebsiteDirectory{
		Overrides: map[string]string{"BASF Forward AM": "https://forward-am.com"},
	})

	var names []string
	for _, m := range got {
		names = append(names, m.Name)
	}
	want := []string{"3D Systems Floor", "BASF Forward AM", "Quantum", "Xiate Labs"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	if got[0].Materials != 2 {
		t.Errorf("3D Systems Floor materials = %d, want 2", got[0].Materials)
	}
	if got[0].Website != DefaultWebsite || !got[0].WebsiteDefaulted {
		t.Errorf("3D Systems Floor website = %q defaulted=%v, want placeholder", got[0].Website, got[0].WebsiteDefaulted)
	}
	if got[1].Website != "https://forward-am.com" || got[1].WebsiteDefaulted {
		t.Errorf("BASF website = %q defaulted=%v, want override", got[1].Website, got[1].WebsiteDefaulted)
	}
}

func TestManufacturers_Deterministic(t *testing.T) {
	cat := mocks.ReferenceCatalog()
	a := Manufacturers(cat, WebsiteDirectory{})
	b := Manufacturers(cat, WebsiteDirectory{})
	if !reflect.DeepEqual(a, b) {
		t.Error("Manufacturers is not deterministic")
	}

	seen := map[string]bool{}
	for _, m := range a {
		if seen[m.Name] {
			t.Errorf("duplicate manufacturer %q", m.Name)
		}
		seen[m.Name] = true
	}
}

func TestManufacturers_CustomDefaultAndFlagged(t *testing.T) {
	cat, _, err := domain.NewCatalog(mocks.ReferenceRecords(), domain.LoadOptions{
		KnownManufacturers: []string{"3D Systems Floor", "BASF Forward AM", "Xiate Labs"},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	got := Manufacturers(cat, WebsiteDirectory{Default: "https://amhub.example/unknown"})
	for _, m := range got {
		if m.Website != "https://amhub.example/unknown" {
			t.Errorf("%s website = %q, want configured default", m.Name, m.Website)
		}
		if m.Flagged != (m.Name == "Quantum") {
			t.Errorf("%s flagged = %v", m.Name, m.Flagged)
		}
	}
	if len(got) != 4 {
		t.Errorf("dangling manufacturers should still be listed, got %d entries", len(got))
	}
}

func TestCertificationLinks(t *testing.T) {
	cat := mocks.ReferenceCatalog()
	links := CertificationLinks(cat)

	total := 0
	for _, m := range cat.Materials() {
		total += len(m.Certifications)
	}
	if len(links) != total {
		t.Errorf("rows = %d, want %d", len(links), total)
	}

	want := []domain.CertificationLink{
		{Product: "Terrascorata brick", Manufacturer: "3D Systems Floor", Certification: "ISO 9001"},
		{Product: "Terrascorata brick", Manufacturer: "3D Systems Floor", Certification: "REACH"},
		{Product: "Ultrasint® TPU 64D", Manufacturer: "BASF Forward AM", Certification: "ISO 10993"},
	}
	if !reflect.DeepEqual(links[:3], want) {
		t.Errorf("first rows = %+v, want %+v", links[:3], want)
	}
}

func TestCertificationLinks_NoCertifications(t *testing.T) {
	records := mocks.ReferenceRecords()[:1]
	records[0].Certifications = nil

	cat, _, err := domain.NewCatalog(records, domain.LoadOptions{})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	if n := len(CertificationLinks(cat)); n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
}

func TestFacetOptionsOf(t *testing.T) {
	opts := FacetOptionsOf(mocks.ReferenceCatalog())

	if want := []string{"Orange", "Gray", "Black", "White"}; !reflect.DeepEqual(opts.Colors, want) {
		t.Errorf("Colors = %v, want %v", opts.Colors, want)
	}
	if want := []string{"3D Systems Floor", "BASF Forward AM", "Quantum", "Xiate Labs"}; !reflect.DeepEqual(opts.Manufacturers, want) {
		t.Errorf("Manufacturers = %v, want %v", opts.Manufacturers, want)
	}
	want := []string{"FDA Food Contact", "ISO 10993", "ISO 9001", "REACH", "RoHS", "UL 94 V-0"}
	if !reflect.DeepEqual(opts.Certifications, want) {
		t.Errorf("Certifications = %v, want %v", opts.Certifications, want)
	}

	empty := FacetOptionsOf(nil)
	if empty.Colors == nil || len(empty.Colors) != 0 {
		t.Errorf("empty catalog Colors = %#v, want empty slice", empty.Colors)
	}
}
