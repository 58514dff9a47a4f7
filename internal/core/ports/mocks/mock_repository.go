package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/amhub/dataworld/internal/core/domain"
)

// ReferenceRecords returns the four-material reference dataset
func ReferenceRecords() []domain.MaterialRecord {
	return []domain.MaterialRecord{
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
			Image:           "static/tpu.png",
		},
		{
			Product:         "Quantum Carbon",
			LicenseISO:      "3D Systems Floor",
			Manufacturer:    "Quantum",
			ValidUntil:      "2025-12-31",
			Color:           "Black",
			Characteristics: "High strength carbon filled",
			Certifications:  []string{"UL 94 V-0"},
			Image:           "static/carbon.png",
		},
		{
			Product:         "White 3D xiate",
			LicenseISO:      "Laser Sintering",
			Manufacturer:    "Xiate Labs",
			ValidUntil:      "2026-09-01",
			Color:           "White",
			Characteristics: "General purpose nylon",
			Certifications:  []string{"ISO 9001", "FDA Food Contact"},
			Image:           "static/white.png",
		},
	}
}

// ReferenceCatalog builds a catalog from the reference dataset
func ReferenceCatalog() *domain.Catalog {
	cat, _, err := domain.NewCatalog(ReferenceRecords(), domain.LoadOptions{Source: "mock"})
	if err != nil {
		panic(err)
	}
	return cat
}

// MockSource is an in-memory implementation of ports.MaterialSource
type MockSource struct {
	mu        sync.Mutex
	records   []domain.MaterialRecord
	loadCalls int
	failError error
}

// NewMockSource creates a source serving the given records
func NewMockSource(records []domain.MaterialRecord) *MockSource {
	return &MockSource{records: records}
}

// Load returns a copy of the configured records
func (m *MockSource) Load(ctx context.Context) ([]domain.MaterialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	if m.failError != nil {
		return nil, m.failError
	}
	out := make([]domain.MaterialRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Describe identifies the mock
func (m *MockSource) Describe() string {
	return "mock://catalog"
}

// SetRecords replaces the served records
func (m *MockSource) SetRecords(records []domain.MaterialRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}

// SetShouldFail makes Load return err (nil clears it)
func (m *MockSource) SetShouldFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failError = err
}

// LoadCalls returns how many times Load ran
func (m *MockSource) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// --- MockNotifier ---

// MockNotifier records submissions instead of sending them
type MockNotifier struct {
	mu         sync.Mutex
	sent       []domain.Submission
	shouldFail bool
	failError  error
	block      chan struct{}
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, sub domain.Submission) error {
	m.mu.Lock()
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldFail {
		if m.failError != nil {
			return m.failError
		}
		return &domain.TransportError{Endpoint: "mock", Err: fmt.Errorf("notify failed for %s", sub.ID)}
	}
	m.sent = append(m.sent, sub)
	return nil
}

func (m *MockNotifier) Name() string {
	return "mock"
}

func (m *MockNotifier) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

// Block makes Notify wait until the returned release func is called
func (m *MockNotifier) Block() (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.block = ch
	m.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (m *MockNotifier) Sent() []domain.Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Submission, len(m.sent))
	copy(out, m.sent)
	return out
}
