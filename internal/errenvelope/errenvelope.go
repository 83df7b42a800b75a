// Package errenvelope maps the typed errors the composer and its
// collaborators return into the CLI's structured IOError envelope, so a
// --output json/yaml caller gets a stable error shape instead of a bare
// error string.
package errenvelope

import (
	ioutil "github.com/stratacfg/strata/internal/utils/io"

	"github.com/stratacfg/strata/internal/composer"
	"github.com/stratacfg/strata/internal/document"
	"github.com/stratacfg/strata/internal/resolver"
)

// Wrap converts err into an *ioutil.IOError, picking the most specific
// code and detail fields its concrete type supports. Errors of unknown
// type fall back to ErrCodeInternal.
func Wrap(err error) *ioutil.IOError {
	if err == nil {
		return nil
	}

	switch e := err.(type) {
	case *composer.ErrMissingPrimaryConfig:
		return ioutil.NewError(ioutil.ErrCodeMissingPrimaryConfig, e.Error()).
			WithDetails("config_file", e.ConfigFile).
			WithDetails("search_path", e.SearchPath)

	case *composer.ErrMissingConfig:
		ioErr := ioutil.NewError(ioutil.ErrCodeMissingConfig, e.Error()).
			WithDetails("name", e.Name)
		if e.Group != "" {
			ioErr = ioErr.WithDetails("group", e.Group)
		}
		return ioErr

	case *composer.ErrInvalidDefaults:
		return ioutil.NewError(ioutil.ErrCodeInvalidDefaults, e.Error()).
			WithDetails("reason", e.Reason)

	case *resolver.ErrPackageNotImportable:
		return ioutil.NewError(ioutil.ErrCodePackageNotImportable, e.Error()).
			WithDetails("qualifier", e.Qualifier)

	case *document.StrictModeError:
		return ioutil.NewError(ioutil.ErrCodeStrictMode, e.Error()).
			WithDetails("path", e.Path)

	case *document.NonMapRootError:
		return ioutil.NewError(ioutil.ErrCodeValidation, e.Error()).
			WithDetails("filename", e.Filename)

	default:
		return ioutil.WrapError(err, ioutil.ErrCodeInternal)
	}
}
