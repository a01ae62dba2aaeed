package plugins

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kingrea/logweave/internal/config"
	"github.com/kingrea/logweave/internal/segment"
)

// Scheme is a resolved naming scheme ready for use by the ordering
// resolver.
type Scheme struct {
	ID          string
	Description string
	Key         segment.KeyFunc
	Source      string
}

// Registry holds every known naming scheme, keyed by id.
type Registry struct {
	schemes map[string]Scheme
}

// NewRegistry returns a registry seeded with the built-in dot-numeric
// scheme.
func NewRegistry() *Registry {
	reg := &Registry{schemes: map[string]Scheme{}}
	reg.schemes[config.DefaultScheme] = Scheme{
		ID:          config.DefaultScheme,
		Description: "numeric key before the extension: <stem>.<N>.<ext>",
		Key:         segment.DotNumericKey,
		Source:      "builtin",
	}
	return reg
}

// Add registers a scheme, rejecting duplicate ids.
func (r *Registry) Add(s Scheme) error {
	id := strings.TrimSpace(s.ID)
	if id == "" {
		return fmt.Errorf("plugin: scheme id is required")
	}
	if existing, ok := r.schemes[id]; ok {
		return fmt.Errorf("plugin: duplicate scheme id %s (%s and %s)", id, existing.Source, s.Source)
	}
	s.ID = id
	r.schemes[id] = s
	return nil
}

// Lookup returns the scheme registered under id.
func (r *Registry) Lookup(id string) (Scheme, bool) {
	s, ok := r.schemes[strings.TrimSpace(id)]
	return s, ok
}

// IDs returns every registered scheme id, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.schemes))
	for id := range r.schemes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Discover loads YAML and Go scheme plugins from dir on top of the
// built-ins. An empty or missing dir yields just the built-ins.
func Discover(dir string) (*Registry, error) {
	reg := NewRegistry()
	if strings.TrimSpace(dir) == "" {
		return reg, nil
	}
	yamlDefs, err := LoadDefinitionDir(dir)
	if err != nil {
		return nil, err
	}
	for _, file := range yamlDefs {
		key, err := file.Definition.KeyFunc()
		if err != nil {
			return nil, fmt.Errorf("plugin: %s: %w", file.Path, err)
		}
		if err := reg.Add(Scheme{
			ID:          file.Definition.ID,
			Description: file.Definition.Description,
			Key:         key,
			Source:      file.Path,
		}); err != nil {
			return nil, err
		}
	}
	goSchemes, err := LoadGoSchemeDir(dir)
	if err != nil {
		return nil, err
	}
	for _, gs := range goSchemes {
		if err := reg.Add(Scheme{ID: gs.ID, Key: gs.Key, Source: gs.Path}); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
