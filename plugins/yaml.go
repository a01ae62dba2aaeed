package plugins

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// DefinitionFile pairs a parsed scheme definition with its on-disk source.
type DefinitionFile struct {
	Definition SchemeDefinition
	Path       string
}

// ParseDefinitionYAML decodes and validates a single scheme definition payload.
func ParseDefinitionYAML(data []byte) (SchemeDefinition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return SchemeDefinition{}, fmt.Errorf("plugin: definition payload is empty")
	}
	var def SchemeDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return SchemeDefinition{}, fmt.Errorf("plugin: decode definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return SchemeDefinition{}, err
	}
	return def.Normalized(), nil
}

// LoadDefinitionFile reads a YAML file from disk and returns the parsed
// scheme definition.
func LoadDefinitionFile(path string) (DefinitionFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("plugin: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return DefinitionFile{}, fmt.Errorf("plugin: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	def, err := ParseDefinitionYAML(data)
	if err != nil {
		return DefinitionFile{}, fmt.Errorf("plugin: %s: %w", path, err)
	}
	return DefinitionFile{Definition: def, Path: path}, nil
}

// LoadDefinitionDir loads every .yaml/.yml scheme definition in dir,
// sorted by path. A missing directory yields no definitions.
func LoadDefinitionDir(dir string) ([]DefinitionFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", dir, err)
	}
	var defs []DefinitionFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
		default:
			continue
		}
		file, err := LoadDefinitionFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, file)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Path < defs[j].Path })
	return defs, nil
}
