package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/amhub/dataworld/internal/core/domain"
	"github.com/amhub/dataworld/internal/core/ports"
)

// catalogDocument is the on-disk layout of a catalog file.
// A bare list of records is accepted as well.
type catalogDocument struct {
	Materials []domain.MaterialRecord `yaml:"materials" json:"materials"`
}

// FileSource reads material records from a YAML or JSON file
type FileSource struct {
	path string
	mu   sync.RWMutex
}

// NewFileSource creates a file-backed material source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Ensure it implements the interface
var _ ports.MaterialSource = (*FileSource)(nil)

// Load reads and decodes every record in the file
func (r *FileSource) Load(ctx context.Context) ([]domain.MaterialRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	records, err := Decode(data, r.format())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(r.path), err)
	}
	return records, nil
}

// Describe returns the file path
func (r *FileSource) Describe() string {
	return r.path
}

// Path returns the catalog file location
func (r *FileSource) Path() string {
	return r.path
}

// Exists reports whether the catalog file is present
func (r *FileSource) Exists() bool {
	_, err := os.Stat(r.path)
	return err == nil
}

// Save writes records to the file, replacing it atomically
func (r *FileSource) Save(ctx context.Context, records []domain.MaterialRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := Encode(records, r.format())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".catalog-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return os.Rename(tmp.Name(), r.path)
}

// ResolveImage returns the image path of m relative to the catalog file
// and whether it exists. Remote images are returned unchanged and assumed present.
func (r *FileSource) ResolveImage(m domain.Material) (string, bool) {
	if !m.HasImage() {
		return "", false
	}
	if strings.HasPrefix(m.Image, "http://") || strings.HasPrefix(m.Image, "https://") {
		return m.Image, true
	}
	path := m.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(r.path), path)
	}
	_, err := os.Stat(path)
	return path, err == nil
}

func (r *FileSource) format() string {
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

// Decode parses a catalog document in the given format ("yaml" or "json")
func Decode(data []byte, format string) ([]domain.MaterialRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch format {
	case "json":
		if data[0] == '[' {
			var list []domain.MaterialRecord
			if err := json.Unmarshal(data, &list); err != nil {
				return nil, err
			}
			return list, nil
		}
		var doc catalogDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.Materials, nil

	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var list []domain.MaterialRecord
			if err := node.Decode(&list); err != nil {
				return nil, err
			}
			return list, nil
		}
		var doc catalogDocument
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Materials, nil

	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}

// Encode renders records as a catalog document
func Encode(records []domain.MaterialRecord, format string) ([]byte, error) {
	doc := catalogDocument{Materials: records}
	switch format {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
}
