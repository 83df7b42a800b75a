// Package store reads located configuration documents and records a
// load trace of every probe made along the way.
package store

import (
	"io/fs"
	"path"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/stratacfg/strata/internal/document"
	"github.com/stratacfg/strata/internal/resolver"
	"github.com/stratacfg/strata/internal/searchpath"
)

// TraceEntry records one attempted load: a hit records Location/Provider,
// a miss leaves both nil.
type TraceEntry struct {
	Filename string
	Location *string
	Provider *string
}

// AsTuple is the one named conversion to the original's asymmetric
// 3-tuple comparison, kept only for tests that want that shape.
func (t TraceEntry) AsTuple() (string, string, string) {
	var loc, prov string
	if t.Location != nil {
		loc = *t.Location
	}
	if t.Provider != nil {
		prov = *t.Provider
	}
	return t.Filename, loc, prov
}

// Trace is an append-only log of document probes.
type Trace []TraceEntry

// Store loads named documents off a Resolver, recording a Trace.
type Store struct {
	resolver *resolver.Resolver
	trace    Trace
	log      *logrus.Entry
}

// New returns a Store bound to the given resolver.
func New(r *resolver.Resolver, log *logrus.Entry) *Store {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Store{resolver: r, log: log}
}

// Trace returns the accumulated load trace.
func (s *Store) Trace() Trace {
	return s.trace
}

// Load resolves and parses name. A miss returns (nil, nil); record
// controls whether the attempt (hit or miss) is appended to the trace.
func (s *Store) Load(name string, record bool) (*document.Document, error) {
	entry, err := s.resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		if record {
			s.trace = append(s.trace, TraceEntry{Filename: name})
		}
		return nil, nil
	}

	data, err := readLocation(entry.Location, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}

	doc, err := document.Parse(name, data)
	if err != nil {
		return nil, err
	}

	if record {
		loc := entry.Location.String()
		provider := entry.Provider
		s.trace = append(s.trace, TraceEntry{Filename: name, Location: &loc, Provider: &provider})
	}
	s.log.WithFields(logrus.Fields{"name": name, "provider": entry.Provider}).Debug("loaded document")

	return doc, nil
}

func readLocation(loc searchpath.Location, name string) ([]byte, error) {
	switch l := loc.(type) {
	case searchpath.FilesystemLocation:
		return afero.ReadFile(l.Fs, path.Join(l.Dir, name))
	case searchpath.PackageLocation:
		return fs.ReadFile(l.FS, path.Join(l.Qualifier, name))
	default:
		return nil, errors.Errorf("unknown search-path location type %T", loc)
	}
}
