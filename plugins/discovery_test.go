package plugins

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/logweave/internal/config"
)

const yamlScheme = `id: dash-numeric
description: dash before the numeric key
pattern: '-(\d+)\.gz$'
`

func TestDiscoverIncludesBuiltin(t *testing.T) {
	reg, err := Discover("")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	builtin, ok := reg.Lookup(config.DefaultScheme)
	if !ok {
		t.Fatalf("built-in scheme missing")
	}
	key, err := builtin.Key("a.log.7.gz")
	if err != nil || key != 7 {
		t.Fatalf("built-in key = %d/%v, want 7", key, err)
	}
}

func TestDiscoverMissingDirYieldsBuiltins(t *testing.T) {
	reg, err := Discover(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if ids := reg.IDs(); len(ids) != 1 || ids[0] != config.DefaultScheme {
		t.Fatalf("ids = %v, want only the built-in", ids)
	}
}

func TestDiscoverLoadsYamlScheme(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dash.yaml"), []byte(yamlScheme), 0o644); err != nil {
		t.Fatalf("write scheme: %v", err)
	}
	reg, err := Discover(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	scheme, ok := reg.Lookup("dash-numeric")
	if !ok {
		t.Fatalf("yaml scheme not registered, ids = %v", reg.IDs())
	}
	key, err := scheme.Key("app.log-9.gz")
	if err != nil || key != 9 {
		t.Fatalf("key = %d/%v, want 9", key, err)
	}
}

func TestDiscoverRejectsDuplicateID(t *testing.T) {
	dir := t.TempDir()
	dup := strings.Replace(yamlScheme, "dash-numeric", config.DefaultScheme, 1)
	if err := os.WriteFile(filepath.Join(dir, "dup.yaml"), []byte(dup), 0o644); err != nil {
		t.Fatalf("write scheme: %v", err)
	}
	if _, err := Discover(dir); err == nil || !strings.Contains(err.Error(), "duplicate scheme id") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Add(Scheme{ID: "zzz", Key: nil, Source: "test"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Add(Scheme{ID: "aaa", Key: nil, Source: "test"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	ids := reg.IDs()
	if len(ids) != 3 || ids[0] != "aaa" || ids[2] != "zzz" {
		t.Fatalf("ids = %v, want sorted with built-in between", ids)
	}
}
