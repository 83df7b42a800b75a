// Package resolver implements first-hit probing of a search path for a
// named configuration document.
package resolver

import (
	"io/fs"
	"path"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/stratacfg/strata/internal/searchpath"
)

// ErrPackageNotImportable is returned when a Package-scheme location
// exists on disk/in the archive but cannot be treated as a resource root
// (the Go analog of a Python package missing its __init__.py).
type ErrPackageNotImportable struct {
	Qualifier string
}

func (e *ErrPackageNotImportable) Error() string {
	return "package " + e.Qualifier + " is missing its init manifest (not importable as a resource root)"
}

// Resolver probes a SearchPath in order for a named document.
type Resolver struct {
	path searchpath.SearchPath
	log  *logrus.Entry
}

// New returns a Resolver bound to the given search path.
func New(sp searchpath.SearchPath, log *logrus.Entry) *Resolver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Resolver{path: sp, log: log}
}

// Resolve returns the first search-path entry containing name, or nil if
// none do.
func (r *Resolver) Resolve(name string) (*searchpath.Entry, error) {
	for i := range r.path {
		entry := r.path[i]
		ok, err := exists(entry.Location, name)
		if err != nil {
			return nil, err
		}
		if ok {
			r.log.WithFields(logrus.Fields{
				"name":     name,
				"provider": entry.Provider,
				"location": entry.Location.String(),
			}).Debug("resolved document")
			return &entry, nil
		}
		r.log.WithFields(logrus.Fields{
			"name":     name,
			"provider": entry.Provider,
			"location": entry.Location.String(),
		}).Trace("probe miss")
	}
	return nil, nil
}

// Exists reports whether name is found anywhere on the search path.
func (r *Resolver) Exists(name string) (bool, error) {
	entry, err := r.Resolve(name)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

func exists(loc searchpath.Location, name string) (bool, error) {
	switch l := loc.(type) {
	case searchpath.FilesystemLocation:
		full := path.Join(l.Dir, name)
		ok, err := afero.Exists(l.Fs, full)
		if err != nil {
			return false, errors.Wrapf(err, "probing %s", full)
		}
		return ok, nil
	case searchpath.PackageLocation:
		full := path.Join(l.Qualifier, name)
		if _, err := fs.Stat(l.FS, full); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return packageMissButMaybeNotImportable(l, err)
			}
			return false, errors.Wrapf(err, "probing package resource %s", full)
		}
		return true, nil
	default:
		return false, errors.Errorf("unknown search-path location type %T", loc)
	}
}

// packageMissButMaybeNotImportable distinguishes an ordinary "not found"
// from a package root that exists but cannot be read as a resource tree
// at all (directory present, listing fails) — the condition the spec
// calls "package-not-importable".
func packageMissButMaybeNotImportable(l searchpath.PackageLocation, missErr error) (bool, error) {
	if _, err := fs.ReadDir(l.FS, l.Qualifier); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &ErrPackageNotImportable{Qualifier: l.Qualifier}
	}
	return false, nil
}
