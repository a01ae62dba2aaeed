package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, DefaultFileName))
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", cfg.Version)
	}
	if cfg.BufferSize != defaultBufferSize {
		t.Fatalf("expected default buffer size, got %d", cfg.BufferSize)
	}
	if cfg.OnDuplicate != DuplicateFail {
		t.Fatalf("expected default duplicate policy %q, got %q", DuplicateFail, cfg.OnDuplicate)
	}
	if cfg.Scheme != DefaultScheme {
		t.Fatalf("expected default scheme %q, got %q", DefaultScheme, cfg.Scheme)
	}
}

func TestLoadParsesYaml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	configYAML := strings.TrimSpace(`
version: 1
buffer_size: 65536
on_duplicate: keep-last
scheme: tilde
schemes_dir: schemes
quiet: true
`)
	if err := os.WriteFile(path, []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.BufferSize != 65536 {
		t.Fatalf("buffer_size = %d, want 65536", cfg.BufferSize)
	}
	if cfg.OnDuplicate != DuplicateKeepLast {
		t.Fatalf("on_duplicate = %q, want keep-last", cfg.OnDuplicate)
	}
	if cfg.Scheme != "tilde" {
		t.Fatalf("scheme = %q, want tilde", cfg.Scheme)
	}
	if !cfg.Quiet {
		t.Fatalf("quiet flag not parsed")
	}
	if cfg.SchemesDir != filepath.Join(dir, "schemes") {
		t.Fatalf("schemes_dir not resolved against config dir: %s", cfg.SchemesDir)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"tiny buffer", "buffer_size: 16", "buffer_size"},
		{"bad policy", "on_duplicate: shrug", "on_duplicate"},
		{"bad version", "version: -2", "version"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, DefaultFileName)
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not name field %q", err, tc.want)
			}
		})
	}
}
