// internal/segment/resolver.go
//
// Ordering resolution for rotated log segments. Given an arbitrary,
// unordered list of segment filenames, work out the order the segments
// were written in, using only the filenames themselves.
//
// The default rule matches the common logrotate shape <stem>.<N>.<ext>
// (app.log.4.gz -> key 4). Exotic rotation schemes plug in their own
// KeyFunc via the plugins package.

package segment

import (
	"sort"
	"strconv"
	"strings"
)

// KeyFunc extracts the ordering key from a segment filename. A failure to
// extract should be reported as *MalformedNameError so callers can show
// the offending name.
type KeyFunc func(name string) (uint64, error)

// DotNumericKey is the built-in naming scheme: the key is the
// second-from-last dot-delimited part of the name, parsed as a
// non-negative base-10 integer. "a.log.4.gz" -> 4.
func DotNumericKey(name string) (uint64, error) {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return 0, &MalformedNameError{Name: name, Reason: "no key part before the extension"}
	}
	raw := parts[len(parts)-2]
	key, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &MalformedNameError{Name: name, Reason: "key part " + strconv.Quote(raw) + " is not a non-negative integer"}
	}
	return key, nil
}

type keyedName struct {
	key  uint64
	name string
}

// Resolve orders names ascending by their DotNumericKey. It fails on the
// first malformed name and on any key collision.
func Resolve(names []string) ([]string, error) {
	return ResolveWith(DotNumericKey, names)
}

// ResolveWith orders names ascending by the key extracted with fn. Two
// names sharing a key fail with *DuplicateKeyError; silently keeping one
// of them would drop log data.
func ResolveWith(fn KeyFunc, names []string) ([]string, error) {
	pairs, err := extractKeys(fn, names)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i].key == pairs[i-1].key {
			return nil, collectDuplicates(pairs, pairs[i].key)
		}
	}
	ordered := make([]string, len(pairs))
	for i, p := range pairs {
		ordered[i] = p.name
	}
	return ordered, nil
}

// ResolveKeepLast is the lenient variant: on a key collision the
// last-seen name in input order wins and the rest are dropped. Only for
// reproducing runs of the legacy tool; prefer ResolveWith.
func ResolveKeepLast(fn KeyFunc, names []string) ([]string, error) {
	pairs, err := extractKeys(fn, names)
	if err != nil {
		return nil, err
	}
	ordered := make([]string, 0, len(pairs))
	for i, p := range pairs {
		if i+1 < len(pairs) && pairs[i+1].key == p.key {
			continue
		}
		ordered = append(ordered, p.name)
	}
	return ordered, nil
}

func extractKeys(fn KeyFunc, names []string) ([]keyedName, error) {
	if fn == nil {
		fn = DotNumericKey
	}
	pairs := make([]keyedName, len(names))
	for i, name := range names {
		key, err := fn(name)
		if err != nil {
			return nil, err
		}
		pairs[i] = keyedName{key: key, name: name}
	}
	// Stable, so names sharing a key keep their input order.
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	return pairs, nil
}

func collectDuplicates(pairs []keyedName, key uint64) *DuplicateKeyError {
	dup := &DuplicateKeyError{Key: key}
	for _, p := range pairs {
		if p.key == key {
			dup.Names = append(dup.Names, p.name)
		}
	}
	return dup
}
