package segment

import (
	"fmt"
	"strings"
)

// MalformedNameError reports a segment filename the active naming scheme
// could not extract an ordering key from.
type MalformedNameError struct {
	Name   string
	Reason string
}

func (e *MalformedNameError) Error() string {
	return fmt.Sprintf("segment: malformed name %q: %s", e.Name, e.Reason)
}

// DuplicateKeyError reports two or more segment filenames that resolved to
// the same ordering key. Proceeding would either drop data or interleave
// segments in an unspecified order, so resolution refuses instead.
type DuplicateKeyError struct {
	Key   uint64
	Names []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("segment: duplicate ordering key %d (%s)", e.Key, strings.Join(e.Names, ", "))
}
