package domain

// Manufacturer is derived from the catalog, never authored on its own
type Manufacturer struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	// WebsiteDefaulted is true when no real website is known and the placeholder was used
	WebsiteDefaulted bool `json:"website_defaulted"`
	Materials        int  `json:"materials"`
	// Flagged is true when the name is missing from the manufacturer directory
	Flagged bool `json:"flagged,omitempty"`
}

// CertificationLink is one (product, manufacturer, certification) row
type CertificationLink struct {
	Product       string `json:"product"`
	Manufacturer  string `json:"manufacturer"`
	Certification string `json:"certification"`
}

// Facets holds the selected values of each filter dimension.
// An empty selection does not filter.
type Facets struct {
	Colors         []string `json:"colors,omitempty"`
	Manufacturers  []string `json:"manufacturers,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	ValidOnly      bool     `json:"valid_only"`
}

// IsEmpty reports whether no facet is active
func (f Facets) IsEmpty() bool {
	return len(f.Colors) == 0 && len(f.Manufacturers) == 0 && len(f.Certifications) == 0 && !f.ValidOnly
}

// FacetOptions lists the values that can be offered for each facet
type FacetOptions struct {
	Colors         []string `json:"colors"`
	Manufacturers  []string `json:"manufacturers"`
	Certifications []string `json:"certifications"`
}
