package plugins

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/kingrea/logweave/internal/segment"
)

const (
	goSchemeIDFuncName  = "SchemeID"
	goSchemeKeyFuncName = "ExtractKey"
)

// GoScheme is a naming scheme implemented as an interpreted Go file.
type GoScheme struct {
	ID   string
	Key  segment.KeyFunc
	Path string
}

// LoadGoSchemeDir evaluates every .go file in dir and collects the naming
// schemes they declare via SchemeID() and ExtractKey(). Scheme files are
// ordinary package main sources. A missing directory yields no schemes.
func LoadGoSchemeDir(dir string) ([]GoScheme, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: read %s: %w", trimmed, err)
	}
	var schemes []GoScheme
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".go" {
			continue
		}
		scheme, err := loadGoSchemeFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, scheme)
	}
	sort.Slice(schemes, func(i, j int) bool { return schemes[i].Path < schemes[j].Path })
	return schemes, nil
}

func loadGoSchemeFile(path string) (GoScheme, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return GoScheme{}, fmt.Errorf("plugin: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return GoScheme{}, fmt.Errorf("plugin: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return GoScheme{}, fmt.Errorf("plugin: prepare interpreter: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return GoScheme{}, fmt.Errorf("plugin: interpret %s: %w", path, err)
	}

	idValue, err := i.Eval(goSchemeIDFuncName)
	if err != nil {
		return GoScheme{}, fmt.Errorf("plugin: %s must define %s() string: %w", path, goSchemeIDFuncName, err)
	}
	id, err := invokeSchemeID(idValue)
	if err != nil {
		return GoScheme{}, fmt.Errorf("plugin: %s: %w", path, err)
	}

	keyValue, err := i.Eval(goSchemeKeyFuncName)
	if err != nil {
		return GoScheme{}, fmt.Errorf("plugin: %s must define %s(string) (uint64, error): %w", path, goSchemeKeyFuncName, err)
	}
	key, err := wrapKeyFunc(keyValue)
	if err != nil {
		return GoScheme{}, fmt.Errorf("plugin: %s: %w", path, err)
	}

	return GoScheme{ID: id, Key: key, Path: path}, nil
}

func invokeSchemeID(value reflect.Value) (string, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return "", fmt.Errorf("%s is not a function", goSchemeIDFuncName)
	}
	t := value.Type()
	if t.NumIn() != 0 || t.NumOut() != 1 || t.Out(0).Kind() != reflect.String {
		return "", fmt.Errorf("%s must be func() string", goSchemeIDFuncName)
	}
	id := strings.TrimSpace(value.Call(nil)[0].String())
	if id == "" {
		return "", fmt.Errorf("%s returned an empty id", goSchemeIDFuncName)
	}
	return id, nil
}

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()

func wrapKeyFunc(value reflect.Value) (segment.KeyFunc, error) {
	if !value.IsValid() || value.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", goSchemeKeyFuncName)
	}
	t := value.Type()
	ok := t.NumIn() == 1 && t.In(0).Kind() == reflect.String &&
		t.NumOut() == 2 && t.Out(0).Kind() == reflect.Uint64 &&
		t.Out(1).Implements(errorInterface)
	if !ok {
		return nil, fmt.Errorf("%s must be func(string) (uint64, error)", goSchemeKeyFuncName)
	}
	return func(name string) (uint64, error) {
		out := value.Call([]reflect.Value{reflect.ValueOf(name)})
		if errValue := out[1]; !errValue.IsNil() {
			return 0, errValue.Interface().(error)
		}
		return out[0].Uint(), nil
	}, nil
}
