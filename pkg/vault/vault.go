package vault

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "dataworld"

// Vault represents the managed storage directory for dataworld
type Vault struct {
	RootPath   string
	StaticPath string // material images referenced by the catalog
	OutboxPath string
	ExportPath string
	ConfigPath string
}

// New creates a new Vault instance with XDG-compliant paths
func New() (*Vault, error) {
	rootPath, rootErr := getVaultRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine vault root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return NewAt(rootPath, configPath), nil
}

// NewAt creates a vault rooted at rootPath, for tests and --data-dir
func NewAt(rootPath, configPath string) *Vault {
	return &Vault{
		RootPath:   rootPath,
		StaticPath: filepath.Join(rootPath, "static"),
		OutboxPath: filepath.Join(rootPath, "outbox"),
		ExportPath: filepath.Join(rootPath, "exports"),
		ConfigPath: configPath,
	}
}

// getVaultRoot returns the vault root directory path
// Uses XDG_DATA_HOME on Unix and AppData on Windows
func getVaultRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	return filepath.Join(homeDir, ".local", "share", appName), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", appName, "config.yaml"), nil
}

// Initialize creates the vault directory structure if it doesn't exist
func (v *Vault) Initialize() error {
	directories := []string{
		v.RootPath,
		v.StaticPath,
		v.OutboxPath,
		v.ExportPath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the vault has been initialized
func (v *Vault) Exists() bool {
	info, err := os.Stat(v.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CatalogPath returns the default catalog file location
func (v *Vault) CatalogPath() string {
	return filepath.Join(v.RootPath, "catalog.yaml")
}

// OutboxFile returns the JSON lines file used when no endpoint is configured
func (v *Vault) OutboxFile() string {
	return filepath.Join(v.OutboxPath, "submissions.jsonl")
}

// GetExportPath returns the full path for an exported file
func (v *Vault) GetExportPath(filename string) string {
	return filepath.Join(v.ExportPath, filename)
}

// ResolveCatalogPath picks the catalog file: an explicit path wins,
// relative paths are taken from the vault root
func (v *Vault) ResolveCatalogPath(configured string) string {
	switch {
	case configured == "":
		return v.CatalogPath()
	case filepath.IsAbs(configured):
		return configured
	default:
		return filepath.Join(v.RootPath, configured)
	}
}
