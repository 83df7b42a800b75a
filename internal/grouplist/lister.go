// Package grouplist enumerates the available documents or sub-groups
// under a group name across the search path, unioning results from every
// provider.
package grouplist

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/stratacfg/strata/internal/searchpath"
)

// OptionKind selects whether GetGroupOptions enumerates sub-directories
// or document files.
type OptionKind int

const (
	// KindDir enumerates sub-directories (i.e. sub-groups).
	KindDir OptionKind = iota
	// KindFile enumerates document files, stripped of their extension.
	KindFile
)

// Lister enumerates groups and group options across a search path.
type Lister struct {
	path searchpath.SearchPath
}

// New returns a Lister bound to the given search path.
func New(sp searchpath.SearchPath) *Lister {
	return &Lister{path: sp}
}

// ListGroups returns the union of sub-directory names under parent
// across every search-path entry.
func (l *Lister) ListGroups(parent string) ([]string, error) {
	return l.GetGroupOptions(parent, KindDir)
}

// GetGroupOptions enumerates either sub-directories (KindDir) or
// document files with their ".yaml"/".yml" extension stripped (KindFile)
// under group, across every search-path entry, excluding housekeeping
// entries (anything underscore-prefixed, the convention this codebase
// already uses for templates/disabled entries, plus package-artifact
// caches). Names found under more than one provider appear once, and the
// result is sorted.
func (l *Lister) GetGroupOptions(group string, kind OptionKind) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	for _, entry := range l.path {
		names, err := optionsAt(entry.Location, group, kind)
		if err != nil {
			return nil, errors.Wrapf(err, "listing %s under provider %s", group, entry.Provider)
		}
		for _, n := range names {
			if seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}

	sort.Strings(out)
	return out, nil
}

func optionsAt(loc searchpath.Location, group string, kind OptionKind) ([]string, error) {
	switch l := loc.(type) {
	case searchpath.FilesystemLocation:
		groupDir := path.Join(l.Dir, group)
		isDir, err := afero.IsDir(l.Fs, groupDir)
		if err != nil || !isDir {
			return nil, nil
		}
		infos, err := afero.ReadDir(l.Fs, groupDir)
		if err != nil {
			return nil, err
		}
		return filterEntries(toNames(infos, func(i int) (string, bool) {
			return infos[i].Name(), infos[i].IsDir()
		}), kind), nil
	case searchpath.PackageLocation:
		groupDir := path.Join(l.Qualifier, group)
		entries, err := fs.ReadDir(l.FS, groupDir)
		if err != nil {
			return nil, nil
		}
		return filterEntries(toNames(entries, func(i int) (string, bool) {
			return entries[i].Name(), entries[i].IsDir()
		}), kind), nil
	default:
		return nil, errors.Errorf("unknown search-path location type %T", loc)
	}
}

// toNames is a small shim so filesystem and package directory listings
// (different concrete entry types) can share one filtering pass.
func toNames[T any](entries []T, get func(i int) (name string, isDir bool)) []nameEntry {
	out := make([]nameEntry, len(entries))
	for i := range entries {
		name, isDir := get(i)
		out[i] = nameEntry{name: name, isDir: isDir}
	}
	return out
}

type nameEntry struct {
	name  string
	isDir bool
}

func filterEntries(entries []nameEntry, kind OptionKind) []string {
	var out []string
	for _, e := range entries {
		if isHousekeeping(e.name) {
			continue
		}
		switch kind {
		case KindDir:
			if e.isDir {
				out = append(out, e.name)
			}
		case KindFile:
			if !e.isDir && (strings.HasSuffix(e.name, ".yaml") || strings.HasSuffix(e.name, ".yml")) {
				out = append(out, strings.TrimSuffix(strings.TrimSuffix(e.name, ".yaml"), ".yml"))
			}
		}
	}
	return out
}

// isHousekeeping matches underscore-prefixed entries: templates/disabled
// groups by convention, and incidentally package-artifact caches like
// __pycache__ too, since those also start with an underscore.
func isHousekeeping(name string) bool {
	return strings.HasPrefix(name, "_")
}
