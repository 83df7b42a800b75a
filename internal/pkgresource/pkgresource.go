// Package pkgresource embeds the strata CLI's own built-in configuration
// resources and exposes them as a searchpath.PackageLocation, the same
// way a plugin or a vendored config package would ship its defaults
// inside the binary rather than on disk.
package pkgresource

import (
	"embed"

	"github.com/stratacfg/strata/internal/searchpath"
)

// Qualifier names this package's built-in resource set. Entry does not
// use it: its location's qualifier is the embedded "resources" directory,
// so load traces and error listings show pkg://resources.
const Qualifier = "strata/builtin"

//go:embed resources
var FS embed.FS

// Entry returns the search-path entry for the embedded resource root. It
// is meant to be appended at the end of a user-configured search path so
// user-supplied documents always resolve first.
func Entry() searchpath.Entry {
	return searchpath.Entry{
		Provider: "builtin",
		Location: searchpath.PackageLocation{FS: FS, Qualifier: "resources"},
	}
}
