package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func referenceRecords() []MaterialRecord {
	return []MaterialRecord{
		{
			Product:         "Terrascorata brick",
			LicenseISO:      "AMCLUSIVE N 12m SLS",
			Manufacturer:    "3D Systems Floor",
			ValidUntil:      "2026-06-30",
			Color:           "Orange",
			Characteristics: "SLS, brick-like, architectural",
			Certifications:  []string{"ISO 9001", "REACH"},
			Image:           "static/brick.png",
		},
		{
			Product:         "Ultrasint® TPU 64D",
			LicenseISO:      "AMCLUSIVE N 12m SLS",
			Manufacturer:    "BASF Forward AM",
			ValidUntil:      "2027-01-15",
			Color:           "Gray",
			Characteristics: "TPU flexible",
			Certifications:  []string{"ISO 10993", "RoHS"},
		},
	}
}

func TestNewCatalog_Valid(t *testing.T) {
	cat, report, err := NewCatalog(referenceRecords(), LoadOptions{})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	if cat.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cat.Len())
	}
	if report.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", report.Accepted)
	}
	if len(report.Rejected) != 0 {
		t.Errorf("Rejected = %d, want 0", len(report.Rejected))
	}

	m := cat.At(0)
	if m.Product != "Terrascorata brick" {
		t.Errorf("At(0).Product = %q", m.Product)
	}
	want := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	if !m.ValidUntil.Equal(want) {
		t.Errorf("ValidUntil = %v, want %v", m.ValidUntil, want)
	}
}

func TestNewCatalog_RequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*MaterialRecord)
		field string
	}{
		{"missing product", func(r *MaterialRecord) { r.Product = "  " }, "product"},
		{"missing manufacturer", func(r *MaterialRecord) { r.Manufacturer = "" }, "manufacturer"},
		{"missing valid_until", func(r *MaterialRecord) { r.ValidUntil = "" }, "valid_until"},
		{"malformed valid_until", func(r *MaterialRecord) { r.ValidUntil = "30/06/2026" }, "valid_until"},
		{"impossible date", func(r *MaterialRecord) { r.ValidUntil = "2026-02-30" }, "valid_until"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := referenceRecords()
			tt.edit(&records[1])

			// strict: whole load rejected
			cat, report, err := NewCatalog(records, LoadOptions{Policy: PolicyStrict})
			if err == nil {
				t.Fatal("expected error under strict policy")
			}
			if cat != nil {
				t.Error("expected nil catalog under strict policy")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError in %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
			if ve.Index != 1 {
				t.Errorf("Index = %d, want 1", ve.Index)
			}
			if len(report.Rejected) != 1 {
				t.Errorf("Rejected = %d, want 1", len(report.Rejected))
			}

			// skip: record excluded, rest kept
			cat, report, err = NewCatalog(records, LoadOptions{Policy: PolicySkip})
			if err != nil {
				t.Fatalf("unexpected error under skip policy: %v", err)
			}
			if cat.Len() != 1 {
				t.Errorf("Len() = %d, want 1", cat.Len())
			}
			if report.Accepted != 1 || len(report.Rejected) != 1 {
				t.Errorf("report = %+v", report)
			}
		})
	}
}

func TestNewCatalog_StrictJoinsAllErrors(t *testing.T) {
	records := referenceRecords()
	records[0].Product = ""
	records[1].ValidUntil = "soon"

	_, _, err := NewCatalog(records, LoadOptions{Policy: PolicyStrict})
	if err == nil {
		t.Fatal("expected error")
	}
	if got := len(ValidationErrors(err)); got != 2 {
		t.Errorf("ValidationErrors = %d, want 2", got)
	}
	if !strings.Contains(err.Error(), "record 2 (Ultrasint® TPU 64D): valid_until") {
		t.Errorf("error message missing record detail: %v", err)
	}
}

func TestNewCatalog_Flags(t *testing.T) {
	records := referenceRecords()
	records[0].Certifications = []string{"ISO 9001", "REACH", "ISO 9001"}
	records = append(records, MaterialRecord{
		Product:      "Terrascorata brick",
		Manufacturer: "Nobody Inc",
		ValidUntil:   "2026-01-01",
	})

	cat, report, err := NewCatalog(records, LoadOptions{
		KnownManufacturers: []string{"3D Systems Floor", "BASF Forward AM"},
	})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	if cat.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (flagged records are kept)", cat.Len())
	}

	if got := cat.At(0).Certifications; len(got) != 2 || got[0] != "ISO 9001" || got[1] != "REACH" {
		t.Errorf("certifications not deduplicated: %v", got)
	}

	kinds := map[FlagKind]int{}
	for _, f := range report.Flags {
		kinds[f.Kind]++
	}
	if kinds[FlagDuplicateCertification] != 1 {
		t.Errorf("duplicate-certification flags = %d, want 1", kinds[FlagDuplicateCertification])
	}
	if kinds[FlagDuplicateProduct] != 1 {
		t.Errorf("duplicate-product flags = %d, want 1", kinds[FlagDuplicateProduct])
	}
	if kinds[FlagUnknownManufacturer] != 1 {
		t.Errorf("unknown-manufacturer flags = %d, want 1", kinds[FlagUnknownManufacturer])
	}
	if !cat.IsFlaggedManufacturer("Nobody Inc") {
		t.Error("Nobody Inc should be flagged")
	}
	if cat.IsFlaggedManufacturer("BASF Forward AM") {
		t.Error("BASF Forward AM should not be flagged")
	}
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	cat, _, err := NewCatalog(referenceRecords(), LoadOptions{})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	all := cat.Materials()
	all[0].Product = "changed"
	all[0].Certifications[0] = "changed"

	m, ok := cat.Find("Terrascorata brick")
	if !ok {
		t.Fatal("Find should still locate the original product")
	}
	if m.Certifications[0] != "ISO 9001" {
		t.Errorf("stored certifications were mutated: %v", m.Certifications)
	}

	m.Certifications[1] = "changed"
	if cat.At(0).Certifications[1] != "REACH" {
		t.Error("Find returned a shared slice")
	}
}

func TestCatalog_NilSafe(t *testing.T) {
	var cat *Catalog
	if cat.Len() != 0 {
		t.Error("nil catalog Len should be 0")
	}
	if cat.Materials() != nil {
		t.Error("nil catalog Materials should be nil")
	}
	if _, ok := cat.Find("x"); ok {
		t.Error("nil catalog Find should miss")
	}
	if m := cat.At(0); m.Product != "" {
		t.Errorf("nil catalog At(0) = %+v, want zero Material", m)
	}
}

func TestCatalog_AtOutOfRange(t *testing.T) {
	cat, _, err := NewCatalog(referenceRecords(), LoadOptions{})
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "Terrascorata brick"},
		{cat.Len() - 1, cat.Materials()[cat.Len()-1].Product},
		{-1, ""},
		{cat.Len(), ""},
		{100, ""},
	}

	for _, tt := range tests {
		if got := cat.At(tt.index).Product; got != tt.want {
			t.Errorf("At(%d).Product = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestParseLoadPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    LoadPolicy
		isValid bool
	}{
		{"", PolicyStrict, true},
		{"strict", PolicyStrict, true},
		{"SKIP", PolicySkip, true},
		{"lenient", "", false},
	}

	for _, tt := range tests {
		got, err := ParseLoadPolicy(tt.in)
		if (err == nil) != tt.isValid {
			t.Errorf("ParseLoadPolicy(%q) valid = %v, want %v", tt.in, err == nil, tt.isValid)
		}
		if got != tt.want {
			t.Errorf("ParseLoadPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
