package ports

import (
	"context"

	"github.com/amhub/dataworld/internal/core/domain"
)

// MaterialSource defines the port for loading raw catalog records
type MaterialSource interface {
	// Load returns every record in source order
	Load(ctx context.Context) ([]domain.MaterialRecord, error)

	// Describe returns a human-readable location (file path, URL)
	Describe() string
}

// Notifier defines the port for delivering request and contact submissions
type Notifier interface {
	// Notify delivers a submission. Failures should be *domain.TransportError.
	Notify(ctx context.Context, sub domain.Submission) error

	// Name identifies the channel in user-facing messages
	Name() string
}

// SnapshotProvider exposes the current catalog snapshot
type SnapshotProvider interface {
	Snapshot() *domain.Catalog
}
