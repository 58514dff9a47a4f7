package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by catalog files
const DateLayout = "2006-01-02"

// MaterialRecord is the raw shape of a material entry as read from a catalog source
type MaterialRecord struct {
	Product         string   `yaml:"product" json:"product"`
	LicenseISO      string   `yaml:"license_iso" json:"license_iso"`
	Manufacturer    string   `yaml:"manufacturer" json:"manufacturer"`
	ValidUntil      string   `yaml:"valid_until" json:"valid_until"`
	Color           string   `yaml:"color" json:"color"`
	Characteristics string   `yaml:"characteristics" json:"characteristics"`
	Certifications  []string `yaml:"certifications" json:"certifications"`
	Image           string   `yaml:"image,omitempty" json:"image,omitempty"`
}

// Material is a validated catalog entry
type Material struct {
	Product         string    `json:"product"`
	LicenseISO      string    `json:"license_iso"`
	Manufacturer    string    `json:"manufacturer"`
	ValidUntil      time.Time `json:"valid_until"`
	Color           string    `json:"color"`
	Characteristics string    `json:"characteristics"`
	Certifications  []string  `json:"certifications"`
	Image           string    `json:"image,omitempty"`
}

// Clone returns a copy that shares no slices with m
func (m Material) Clone() Material {
	out := m
	if m.Certifications != nil {
		out.Certifications = append([]string(nil), m.Certifications...)
	}
	return out
}

// IsValidOn reports whether the material's compliance is still valid on the given day.
// The expiry day itself counts as valid.
func (m Material) IsValidOn(today time.Time) bool {
	return !DateOf(m.ValidUntil).Before(DateOf(today))
}

// HasCertification checks for an exact certification label
func (m Material) HasCertification(cert string) bool {
	for _, c := range m.Certifications {
		if c == cert {
			return true
		}
	}
	return false
}

// HasImage reports whether an image reference is set.
// Whether it resolves is up to the renderer.
func (m Material) HasImage() bool {
	return strings.TrimSpace(m.Image) != ""
}

// GetDisplayDate returns the validity date as YYYY-MM-DD
func (m Material) GetDisplayDate() string {
	return m.ValidUntil.Format(DateLayout)
}

// GetCertificationsString returns certifications as a comma-separated string
func (m Material) GetCertificationsString() string {
	if len(m.Certifications) == 0 {
		return "-"
	}
	return strings.Join(m.Certifications, ", ")
}

// Record converts the material back to its raw catalog shape
func (m Material) Record() MaterialRecord {
	return MaterialRecord{
		Product:         m.Product,
		LicenseISO:      m.LicenseISO,
		Manufacturer:    m.Manufacturer,
		ValidUntil:      m.GetDisplayDate(),
		Color:           m.Color,
		Characteristics: m.Characteristics,
		Certifications:  append([]string{}, m.Certifications...),
		Image:           m.Image,
	}
}

// MarshalJSON encodes the material in its catalog shape with a plain calendar date
func (m Material) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Record())
}

// DateOf truncates t to its calendar date at UTC midnight
func DateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD date, falling back to RFC 3339 timestamps
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return DateOf(t), nil
}
