package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LoadPolicy decides what happens to a catalog load that contains invalid records
type LoadPolicy string

const (
	// PolicyStrict rejects the whole load if any record is invalid
	PolicyStrict LoadPolicy = "strict"
	// PolicySkip drops invalid records and keeps the rest
	PolicySkip LoadPolicy = "skip"
)

// ParseLoadPolicy maps a config value to a policy, defaulting to strict
func ParseLoadPolicy(s string) (LoadPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicyStrict):
		return PolicyStrict, nil
	case string(PolicySkip):
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown load policy %q (want strict or skip)", s)
	}
}

// FlagKind classifies a non-fatal problem with an accepted record
type FlagKind string

const (
	FlagUnknownManufacturer    FlagKind = "unknown-manufacturer"
	FlagDuplicateCertification FlagKind = "duplicate-certification"
	FlagDuplicateProduct       FlagKind = "duplicate-product"
)

// RecordFlag marks an accepted record that needs attention
type RecordFlag struct {
	Product string   `json:"product"`
	Kind    FlagKind `json:"kind"`
	Detail  string   `json:"detail"`
}

// LoadOptions controls how raw records become a catalog
type LoadOptions struct {
	Policy LoadPolicy
	// KnownManufacturers, when non-empty, is the manufacturer directory.
	// Records referencing anything else are accepted but flagged.
	KnownManufacturers []string
	Source             string
	Now                time.Time
}

// LoadReport summarizes a catalog load
type LoadReport struct {
	Accepted int
	Rejected []*ValidationError
	Flags    []RecordFlag
}

// Catalog is an immutable snapshot of validated materials.
// It is safe to share between goroutines; a refresh builds a new Catalog.
type Catalog struct {
	materials []Material
	flags     []RecordFlag
	flagged   map[string]struct{} // manufacturers flagged as unknown
	source    string
	loadedAt  time.Time
}

// NewCatalog validates raw records and builds a snapshot.
// Under PolicyStrict any invalid record fails the load and the returned error
// joins every *ValidationError found. Under PolicySkip invalid records are
// listed in the report instead.
func NewCatalog(records []MaterialRecord, opts LoadOptions) (*Catalog, *LoadReport, error) {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyStrict
	}

	known := make(map[string]struct{}, len(opts.KnownManufacturers))
	for _, name := range opts.KnownManufacturers {
		if name = strings.TrimSpace(name); name != "" {
			known[name] = struct{}{}
		}
	}

	report := &LoadReport{}
	cat := &Catalog{
		materials: make([]Material, 0, len(records)),
		flagged:   make(map[string]struct{}),
		source:    opts.Source,
		loadedAt:  opts.Now,
	}
	if cat.loadedAt.IsZero() {
		cat.loadedAt = time.Now()
	}

	seenProducts := make(map[string]struct{}, len(records))
	var errs []error

	for i, rec := range records {
		m, verr := validateRecord(i, rec)
		if verr != nil {
			report.Rejected = append(report.Rejected, verr)
			errs = append(errs, verr)
			continue
		}

		// Certifications: collapse duplicates, keep first occurrence
		certs := make([]string, 0, len(m.Certifications))
		seen := make(map[string]struct{}, len(m.Certifications))
		for _, c := range m.Certifications {
			if _, dup := seen[c]; dup {
				report.Flags = append(report.Flags, RecordFlag{
					Product: m.Product,
					Kind:    FlagDuplicateCertification,
					Detail:  c,
				})
				continue
			}
			seen[c] = struct{}{}
			certs = append(certs, c)
		}
		m.Certifications = certs

		if _, dup := seenProducts[m.Product]; dup {
			report.Flags = append(report.Flags, RecordFlag{
				Product: m.Product,
				Kind:    FlagDuplicateProduct,
				Detail:  fmt.Sprintf("record %d repeats an earlier product name", i+1),
			})
		}
		seenProducts[m.Product] = struct{}{}

		if len(known) > 0 {
			if _, ok := known[m.Manufacturer]; !ok {
				report.Flags = append(report.Flags, RecordFlag{
					Product: m.Product,
					Kind:    FlagUnknownManufacturer,
					Detail:  m.Manufacturer,
				})
				cat.flagged[m.Manufacturer] = struct{}{}
			}
		}

		cat.materials = append(cat.materials, m)
	}

	if len(errs) > 0 && policy == PolicyStrict {
		return nil, report, fmt.Errorf("catalog rejected: %w", errors.Join(errs...))
	}

	report.Accepted = len(cat.materials)
	cat.flags = report.Flags
	return cat, report, nil
}

func validateRecord(index int, rec MaterialRecord) (Material, *ValidationError) {
	product := strings.TrimSpace(rec.Product)
	fail := func(field, reason string) (Material, *ValidationError) {
		return Material{}, &ValidationError{Index: index, Product: product, Field: field, Reason: reason}
	}

	if product == "" {
		return fail("product", "is required")
	}
	manufacturer := strings.TrimSpace(rec.Manufacturer)
	if manufacturer == "" {
		return fail("manufacturer", "is required")
	}
	if strings.TrimSpace(rec.ValidUntil) == "" {
		return fail("valid_until", "is required")
	}
	validUntil, err := ParseDate(rec.ValidUntil)
	if err != nil {
		return fail("valid_until", err.Error())
	}

	certs := make([]string, 0, len(rec.Certifications))
	for _, c := range rec.Certifications {
		if c = strings.TrimSpace(c); c != "" {
			certs = append(certs, c)
		}
	}

	return Material{
		Product:         product,
		LicenseISO:      strings.TrimSpace(rec.LicenseISO),
		Manufacturer:    manufacturer,
		ValidUntil:      validUntil,
		Color:           strings.TrimSpace(rec.Color),
		Characteristics: strings.TrimSpace(rec.Characteristics),
		Certifications:  certs,
		Image:           strings.TrimSpace(rec.Image),
	}, nil
}

// Len returns the number of materials in the snapshot
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.materials)
}

// At returns a copy of the material at position i.
// A nil catalog or an index outside [0, Len()) yields the zero Material.
func (c *Catalog) At(i int) Material {
	if c == nil || i < 0 || i >= len(c.materials) {
		return Material{}
	}
	return c.materials[i].Clone()
}

// Materials returns a deep copy of all materials in store order
func (c *Catalog) Materials() []Material {
	if c == nil {
		return nil
	}
	out := make([]Material, len(c.materials))
	for i, m := range c.materials {
		out[i] = m.Clone()
	}
	return out
}

// Find looks up the first material with the given product name
func (c *Catalog) Find(product string) (Material, bool) {
	if c == nil {
		return Material{}, false
	}
	for _, m := range c.materials {
		if m.Product == product {
			return m.Clone(), true
		}
	}
	return Material{}, false
}

// Flags returns the non-fatal problems found while loading
func (c *Catalog) Flags() []RecordFlag {
	if c == nil {
		return nil
	}
	return append([]RecordFlag(nil), c.flags...)
}

// IsFlaggedManufacturer reports whether name was not found in the manufacturer directory
func (c *Catalog) IsFlaggedManufacturer(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.flagged[name]
	return ok
}

// Source describes where the snapshot was loaded from
func (c *Catalog) Source() string {
	if c == nil {
		return ""
	}
	return c.source
}

// LoadedAt returns when the snapshot was built
func (c *Catalog) LoadedAt() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.loadedAt
}
