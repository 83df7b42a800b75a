package composer

import (
	"fmt"
	"strings"
)

// ErrMissingPrimaryConfig is returned when the named primary config file
// cannot be found anywhere on the search path.
type ErrMissingPrimaryConfig struct {
	ConfigFile string
	SearchPath string
}

func (e *ErrMissingPrimaryConfig) Error() string {
	return fmt.Sprintf("cannot find primary config file: %s\nsearch path:\n%s", e.ConfigFile, e.SearchPath)
}

// ErrMissingConfig is returned when a required default cannot be found.
// SiblingOptions, when non-empty, lists the other documents available in
// the same group so the caller can suggest a fix.
type ErrMissingConfig struct {
	Group          string
	Name           string
	SiblingOptions []string
}

func (e *ErrMissingConfig) Error() string {
	target := e.Name
	if e.Group != "" {
		target = e.Group + "/" + e.Name
	}
	if len(e.SiblingOptions) == 0 {
		return fmt.Sprintf("could not load %s", target)
	}
	return fmt.Sprintf("could not load %s, available options:\n%s:\n\t%s",
		target, e.Group, strings.Join(e.SiblingOptions, "\n\t"))
}

// ErrInvalidDefaults is returned when the defaults list is structurally
// malformed.
type ErrInvalidDefaults struct {
	Reason string
}

func (e *ErrInvalidDefaults) Error() string {
	return "invalid defaults list: " + e.Reason
}
