// Package override implements override-string parsing and the three-phase
// classification that splits raw overrides into defaults-list rewrites,
// free-defaults additions, and post-merge leaf sets.
package override

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NullValue is the special override value meaning "remove this default".
const NullValue = "null"

// Split splits a raw "KEY=VALUE" override token into its key and value.
func Split(raw string) (key, value string, err error) {
	idx := strings.Index(raw, "=")
	if idx < 0 {
		return "", "", errors.Errorf("invalid override %q: missing '='", raw)
	}
	return raw[:idx], raw[idx+1:], nil
}

// IsSweep reports whether value is a comma-separated multi-run
// expansion. The composer never expands a sweep itself; it only marks
// the corresponding defaults entry for deferral.
func IsSweep(value string) bool {
	return strings.Contains(value, ",")
}

// IsNull reports whether value is the "remove this default" sentinel.
func IsNull(value string) bool {
	return value == NullValue
}

// ParseValue converts a raw override value into the bool, nil (for
// "null"), int64, float64 or string it denotes. Overrides carry no type annotation of their own,
// so this applies the same literal-sniffing a YAML scalar would get.
func ParseValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case NullValue:
		return nil
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
