package vault

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_XDG(t *testing.T) {
	dataHome := t.TempDir()
	configHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)
	t.Setenv("XDG_CONFIG_HOME", configHome)

	v, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if want := filepath.Join(dataHome, "dataworld"); v.RootPath != want {
		t.Errorf("RootPath = %q, want %q", v.RootPath, want)
	}
	if want := filepath.Join(configHome, "dataworld", "config.yaml"); v.ConfigPath != want {
		t.Errorf("ConfigPath = %q, want %q", v.ConfigPath, want)
	}
}

func TestVault_Paths(t *testing.T) {
	v := NewAt("/test/vault", "/test/config.yaml")

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"catalog", v.CatalogPath(), "/test/vault/catalog.yaml"},
		{"outbox", v.OutboxFile(), "/test/vault/outbox/submissions.jsonl"},
		{"export", v.GetExportPath("chart.html"), "/test/vault/exports/chart.html"},
		{"static", v.StaticPath, "/test/vault/static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if filepath.ToSlash(tt.got) != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestVault_ResolveCatalogPath(t *testing.T) {
	v := NewAt("/test/vault", "")

	tests := []struct {
		configured string
		expected   string
	}{
		{"", "/test/vault/catalog.yaml"},
		{"/srv/catalog.json", "/srv/catalog.json"},
		{"custom/catalog.yaml", "/test/vault/custom/catalog.yaml"},
	}

	for _, tt := range tests {
		if got := filepath.ToSlash(v.ResolveCatalogPath(tt.configured)); got != tt.expected {
			t.Errorf("ResolveCatalogPath(%q) = %q, want %q", tt.configured, got, tt.expected)
		}
	}
}

func TestVault_Initialize(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v := NewAt(root, filepath.Join(root, "config.yaml"))

	if v.Exists() {
		t.Fatal("vault should not exist yet")
	}
	if err := v.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !v.Exists() {
		t.Error("vault should exist after Initialize")
	}
	for _, dir := range []string{v.StaticPath, v.OutboxPath, v.ExportPath} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}
}
