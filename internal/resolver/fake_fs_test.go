package resolver

import (
	"io/fs"
)

// brokenPackageFS simulates a package-resource root whose qualifier
// directory exists but cannot be enumerated or read at all — the
// "missing init manifest" condition from the original package-resource
// API, where a package is importable as a name but has no readable
// resource tree.
type brokenPackageFS struct {
	missingQualifier string
}

func (b brokenPackageFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (b brokenPackageFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name == b.missingQualifier {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrPermission}
	}
	return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
}
