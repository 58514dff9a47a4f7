package repository

import (
	"context"
	_ "embed"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
)

//go:embed seed.yaml
var seedCatalog []byte

// SeedCatalog returns the bundled starter catalog file contents
func SeedCatalog() []byte {
	return append([]byte(nil), seedCatalog...)
}

// SeedSource serves the bundled starter catalog
type SeedSource struct{}

var _ ports.MaterialSource = SeedSource{}

func (SeedSource) Load(ctx context.Context) ([]domain.MaterialRecord, error) {
	return Decode(seedCatalog, "yaml")
}

func (SeedSource) Describe() string {
	return "builtin:seed.yaml"
}
