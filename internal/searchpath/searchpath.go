// Package searchpath defines the ordered list of locations the resolver
// probes to find a named configuration document: filesystem directories
// and embedded package-resource roots.
package searchpath

import (
	"io/fs"
	"strings"

	"github.com/spf13/afero"
)

// PackageScheme is the prefix marking a search-path location as a
// packaged-resource root rather than a filesystem directory.
const PackageScheme = "pkg://"

// Location is implemented by FilesystemLocation and PackageLocation, the
// two kinds of place a named document can live.
type Location interface {
	isLocation()
	// String renders the location the way it would appear in a
	// human-readable search-path listing (used in error messages).
	String() string
}

// FilesystemLocation is a directory on an afero filesystem.
type FilesystemLocation struct {
	Fs  afero.Fs
	Dir string
}

func (FilesystemLocation) isLocation() {}

func (l FilesystemLocation) String() string { return l.Dir }

// PackageLocation is a directory rooted inside an embedded or otherwise
// packaged fs.FS, addressed by a qualifier (the package/module name).
type PackageLocation struct {
	FS        fs.FS
	Qualifier string
}

func (PackageLocation) isLocation() {}

func (l PackageLocation) String() string { return PackageScheme + l.Qualifier }

// Entry is one (provider, location) pair in the search path. Provider is
// a label for provenance (e.g. "framework", "plugin:x", "user"), recorded
// in the load trace.
type Entry struct {
	Provider string
	Location Location
}

// SearchPath is an ordered, immutable-for-the-duration-of-a-composition
// sequence of entries. First hit wins.
type SearchPath []Entry

// New constructs a SearchPath from entries, preserving order.
func New(entries ...Entry) SearchPath {
	sp := make(SearchPath, len(entries))
	copy(sp, entries)
	return sp
}

// Append returns a new SearchPath with entry appended; the receiver is
// left unmodified so callers can share a base path across compositions.
func (sp SearchPath) Append(e Entry) SearchPath {
	out := make(SearchPath, len(sp)+1)
	copy(out, sp)
	out[len(sp)] = e
	return out
}

// Listing renders the search path the way MissingPrimaryConfig messages
// report it: one "\tpath (from provider)" line per entry.
func (sp SearchPath) Listing() string {
	var b strings.Builder
	for i, e := range sp {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("\t")
		b.WriteString(e.Location.String())
		b.WriteString(" (from ")
		b.WriteString(e.Provider)
		b.WriteString(")")
	}
	return b.String()
}
