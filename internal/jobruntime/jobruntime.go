// Package jobruntime supplies the job-runtime metadata the composer
// consults when it has nothing else to go on: a default job name, and
// the deterministic override_dirname derived from the overrides that
// were actually applied.
package jobruntime

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Runtime is the out-of-scope job-runtime metadata collaborator the
// composer pulls a default job name from when the caller hasn't set one.
type Runtime struct {
	name string
}

// New returns a Runtime whose default name is a short, unique job
// identifier — the Go-native analog of the original's PID/timestamp
// default.
func New() *Runtime {
	return &Runtime{name: "job-" + uuid.NewString()[:8]}
}

// Name returns the default job name.
func (r *Runtime) Name() string {
	return r.name
}

// OverrideDirnameConfig configures OverrideDirname, mirroring
// framework.job.config.override_dirname in the composed document.
type OverrideDirnameConfig struct {
	KVSep       string
	ItemSep     string
	ExcludeKeys []string
}

// DefaultOverrideDirnameConfig matches the composer's built-in defaults
// when a document doesn't set framework.job.config.override_dirname
// explicitly.
func DefaultOverrideDirnameConfig() OverrideDirnameConfig {
	return OverrideDirnameConfig{KVSep: "=", ItemSep: ",", ExcludeKeys: nil}
}

// OverrideDirname computes a deterministic string summarizing the task
// overrides that were actually applied, suitable for use as a run
// directory name. Entries whose key is listed in ExcludeKeys (exact
// match) are dropped from the string (but remain recorded in
// framework.overrides.task). Order reflects application order — the
// input is not sorted, since composition order is itself significant.
func OverrideDirname(appliedOverrides []string, cfg OverrideDirnameConfig) string {
	excluded := make(map[string]bool, len(cfg.ExcludeKeys))
	for _, k := range cfg.ExcludeKeys {
		excluded[k] = true
	}

	var parts []string
	for _, raw := range appliedOverrides {
		idx := strings.Index(raw, "=")
		if idx < 0 {
			parts = append(parts, raw)
			continue
		}
		key := raw[:idx]
		if excluded[key] {
			continue
		}
		value := raw[idx+1:]
		parts = append(parts, key+cfg.KVSep+value)
	}

	return strings.Join(parts, cfg.ItemSep)
}

// SanitizeForPath makes an override_dirname safe to use as a single
// filesystem path segment, collapsing path separators a value might
// have smuggled in.
func SanitizeForPath(dirname string) string {
	return filepath.Base(filepath.Clean("/" + dirname))
}
