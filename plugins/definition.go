package plugins

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kingrea/logweave/internal/segment"
)

// SchemeDefinition describes a filename ordering scheme loaded from YAML.
//
// The struct mirrors the on-disk schema under the schemes directory and
// is intentionally narrow: an id, an optional description, and a regular
// expression with exactly one capture group. The captured text is parsed
// as the segment's ordering key.
type SchemeDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Pattern     string `json:"pattern" yaml:"pattern"`
}

// Normalized returns a trimmed copy of the definition.
func (def SchemeDefinition) Normalized() SchemeDefinition {
	return SchemeDefinition{
		ID:          strings.TrimSpace(def.ID),
		Description: strings.TrimSpace(def.Description),
		Pattern:     strings.TrimSpace(def.Pattern),
	}
}

// Validate ensures the scheme definition is well-formed: a usable id and
// a compilable pattern with exactly one capture group for the key.
func (def SchemeDefinition) Validate() error {
	normalized := def.Normalized()
	if normalized.ID == "" {
		return fmt.Errorf("plugin: id is required")
	}
	if strings.ContainsAny(normalized.ID, " \t") {
		return fmt.Errorf("plugin %s: id must not contain whitespace", normalized.ID)
	}
	if normalized.Pattern == "" {
		return fmt.Errorf("plugin %s: pattern is required", normalized.ID)
	}
	re, err := regexp.Compile(normalized.Pattern)
	if err != nil {
		return fmt.Errorf("plugin %s: compile pattern: %w", normalized.ID, err)
	}
	if re.NumSubexp() != 1 {
		return fmt.Errorf("plugin %s: pattern must have exactly one capture group, has %d", normalized.ID, re.NumSubexp())
	}
	return nil
}

// KeyFunc compiles the definition into a segment.KeyFunc. Call Validate
// first; an invalid pattern fails here too.
func (def SchemeDefinition) KeyFunc() (segment.KeyFunc, error) {
	normalized := def.Normalized()
	if err := normalized.Validate(); err != nil {
		return nil, err
	}
	re := regexp.MustCompile(normalized.Pattern)
	id := normalized.ID
	return func(name string) (uint64, error) {
		m := re.FindStringSubmatch(name)
		if m == nil {
			return 0, &segment.MalformedNameError{Name: name, Reason: "does not match scheme " + id}
		}
		key, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return 0, &segment.MalformedNameError{Name: name, Reason: "captured key " + strconv.Quote(m[1]) + " is not a non-negative integer"}
		}
		return key, nil
	}, nil
}
