// Package defaults implements the ordered defaults list that drives
// composition: an ordered sequence of GroupBinding and BareFile entries,
// with group-keyed merging and structural validation.
package defaults

import (
	"path"
	"strings"

	"github.com/pkg/errors"
)

// SkipSentinel marks a defaults entry as postponed for a sweep: this
// group is part of a multi-run expansion and will be resolved per
// sub-run rather than loaded now.
const SkipSentinel = "_SKIP_"

// Entry is a defaults-list element: either a GroupBinding or a BareFile.
// It is a closed sum type; callers type-switch on the concrete type, and
// Kind() reports the same distinction as a value.
type Entry interface {
	Kind() EntryKind
}

// EntryKind discriminates the two Entry implementations.
type EntryKind int

const (
	// KindGroupBinding selects document group/choice.
	KindGroupBinding EntryKind = iota
	// KindBareFile merges a document by name from the search-path root.
	KindBareFile
)

// GroupBinding selects document "group/choice" to merge. Choice == nil
// means "drop this group"; Choice == SkipSentinel means "postpone for a
// sweep".
type GroupBinding struct {
	Group    string
	Choice   *string
	Optional bool
}

// Kind implements Entry.
func (GroupBinding) Kind() EntryKind { return KindGroupBinding }

// IsSkipped reports whether this binding is postponed for a sweep.
func (g GroupBinding) IsSkipped() bool {
	return g.Choice != nil && *g.Choice == SkipSentinel
}

// IsDropped reports whether this binding has been removed from
// consideration (Choice == nil).
func (g GroupBinding) IsDropped() bool {
	return g.Choice == nil
}

// BareFile merges the document of that name from the root of the search
// path.
type BareFile string

// Kind implements Entry.
func (BareFile) Kind() EntryKind { return KindBareFile }

// List is the ordered sequence of defaults entries.
type List []Entry

// GroupKey returns the key an entry is identified by: a GroupBinding's
// Group, or a BareFile's own name. Merge matches only GroupBindings by
// group; bare files are always appended, so merging the same bare file
// twice yields two entries.
func GroupKey(e Entry) string {
	switch v := e.(type) {
	case GroupBinding:
		return v.Group
	case BareFile:
		return string(v)
	default:
		return ""
	}
}

// Merge implements primary ⊕ secondary: for each entry in secondary, if
// its group already appears in primary the existing entry's choice is
// replaced in place; otherwise the entry is appended. The first
// occurrence of a group in primary is the one replaced. primary is
// mutated and returned for convenience.
func Merge(primary, secondary List) List {
	keyToIdx := map[string]int{}
	for i, e := range primary {
		if gb, ok := e.(GroupBinding); ok {
			if _, seen := keyToIdx[gb.Group]; !seen {
				keyToIdx[gb.Group] = i
			}
		}
	}

	for _, e := range secondary {
		gb, ok := e.(GroupBinding)
		if !ok {
			primary = append(primary, e)
			continue
		}
		if idx, exists := keyToIdx[gb.Group]; exists {
			primary[idx] = gb
			continue
		}
		keyToIdx[gb.Group] = len(primary)
		primary = append(primary, gb)
	}

	return primary
}

// Validate checks every entry for structural well-formedness: a
// GroupBinding always carries exactly its group key plus an optional
// Optional flag (already enforced by the Go type, so Validate only
// checks semantically meaningless combinations), a BareFile is always a
// plain string. It returns the first structural error found.
func Validate(l List) error {
	for _, e := range l {
		switch v := e.(type) {
		case GroupBinding:
			if strings.TrimSpace(v.Group) == "" {
				return errors.New("invalid defaults entry: group binding with empty group key")
			}
		case BareFile:
			if strings.TrimSpace(string(v)) == "" {
				return errors.New("invalid defaults entry: empty bare file name")
			}
		default:
			return errors.Errorf("invalid defaults entry: unsupported kind %T", e)
		}
	}
	return nil
}

// NormalizeFilename appends ".yaml" when the given config name has no
// recognized extension, matching the spec's "extension added if absent"
// rule (.yaml or .yml pass through unchanged).
func NormalizeFilename(name string) string {
	ext := path.Ext(name)
	if ext == ".yaml" || ext == ".yml" {
		return name
	}
	return name + ".yaml"
}
