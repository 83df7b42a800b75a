// Package composer orchestrates the full configuration load: loading the
// framework and job documents, merging defaults lists, classifying and
// applying overrides in the correct phase, merging all documents in
// order, and finalizing framework bookkeeping.
package composer

import (
	"context"
	"os"
	"path"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/stratacfg/strata/internal/defaults"
	"github.com/stratacfg/strata/internal/document"
	"github.com/stratacfg/strata/internal/grouplist"
	"github.com/stratacfg/strata/internal/jobruntime"
	"github.com/stratacfg/strata/internal/override"
	"github.com/stratacfg/strata/internal/resolver"
	"github.com/stratacfg/strata/internal/searchpath"
	"github.com/stratacfg/strata/internal/store"
)

// frameworkFilename is the mandatory, framework-owned document every
// composition loads first.
const frameworkFilename = "framework.yaml"

// Composer drives load_configuration and load_sweep_config against a
// shared, read-only search path.
type Composer struct {
	path          searchpath.SearchPath
	defaultStrict bool
	runtime       *jobruntime.Runtime
	log           *logrus.Entry
}

// New returns a Composer bound to sp, whose whole-document strict mode
// defaults to defaultStrict whenever a call doesn't specify one
// explicitly.
func New(sp searchpath.SearchPath, defaultStrict bool) *Composer {
	return &Composer{
		path:          sp,
		defaultStrict: defaultStrict,
		runtime:       jobruntime.New(),
		log:           logrus.NewEntry(logrus.StandardLogger()),
	}
}

// SearchPath returns the composer's search path.
func (c *Composer) SearchPath() searchpath.SearchPath {
	return c.path
}

// Load runs load_configuration: it loads the mandatory framework
// document, the optional primary config document, composes their
// defaults lists, classifies and applies overrides, merges every
// resulting document in order, and writes framework bookkeeping. It
// returns the composed document and the load trace accumulated along
// the way.
func (c *Composer) Load(ctx context.Context, configFile *string, overrides []string, strict *bool) (*document.Document, store.Trace, error) {
	effectiveStrict := c.defaultStrict
	if strict != nil {
		effectiveStrict = *strict
	}

	if configFile != nil {
		normalized := defaults.NormalizeFilename(*configFile)
		configFile = &normalized
	}

	res := resolver.New(c.path, c.log)
	st := store.New(res, c.log)
	lister := grouplist.New(c.path)

	if configFile != nil {
		ok, err := res.Exists(*configFile)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, &ErrMissingPrimaryConfig{ConfigFile: *configFile, SearchPath: c.path.Listing()}
		}
	}

	frameworkDoc, err := st.Load(frameworkFilename, true)
	if err != nil {
		return nil, nil, err
	}
	if frameworkDoc == nil {
		return nil, nil, errors.Errorf("mandatory %s not found on search path:\n%s", frameworkFilename, c.path.Listing())
	}

	jobDoc := document.New()
	if configFile != nil {
		loaded, err := st.Load(*configFile, false)
		if err != nil {
			return nil, nil, err
		}
		if loaded != nil {
			jobDoc = loaded
		}
	}

	frameworkDefaults, err := extractDefaults(frameworkDoc)
	if err != nil {
		return nil, nil, err
	}

	defs := frameworkDefaults
	if configFile != nil {
		defs = append(defs, defaults.BareFile(*configFile))
	}
	splitAt := len(defs)

	jobDefaults, err := extractDefaults(jobDoc)
	if err != nil {
		return nil, nil, err
	}
	defs = defaults.Merge(defs, jobDefaults)

	classification, err := override.Classify(defs, overrides, res.Exists)
	if err != nil {
		return nil, nil, err
	}
	defs = classification.Defaults

	if err := defaults.Validate(defs); err != nil {
		return nil, nil, &ErrInvalidDefaults{Reason: err.Error()}
	}

	cfg, err := frameworkSkeleton().Merge(frameworkDoc)
	if err != nil {
		return nil, nil, err
	}

	cfg, err = c.mergeDefaultsList(ctx, cfg, defs[:splitAt], st, lister)
	if err != nil {
		return nil, nil, err
	}
	cfg, err = c.mergeDefaultsList(ctx, cfg, defs[splitAt:], st, lister)
	if err != nil {
		return nil, nil, err
	}

	_ = cfg.Delete("defaults")

	cfg.MarkStrict("framework")
	cfg.SetWholeStrict(effectiveStrict)

	allConsumed := append(append([]string{}, classification.ConsumedGroup...), classification.ConsumedFree...)
	residual := classification.Residual
	for _, raw := range residual {
		key, value, err := override.Split(raw)
		if err != nil {
			return nil, nil, err
		}
		if err := cfg.Set(key, override.ParseValue(value)); err != nil {
			return nil, nil, err
		}
	}

	applied := append(append([]string{}, allConsumed...), residual...)
	var taskOverrides, frameworkOverrides []string
	for _, o := range applied {
		if isFrameworkOverride(o) {
			frameworkOverrides = append(frameworkOverrides, o)
		} else {
			taskOverrides = append(taskOverrides, o)
		}
	}

	if err := cfg.Set("framework.overrides.task", toAnySlice(taskOverrides)); err != nil {
		return nil, nil, err
	}
	if err := cfg.Set("framework.overrides.framework", toAnySlice(frameworkOverrides)); err != nil {
		return nil, nil, err
	}

	if name, ok := cfg.Get("framework.job.name"); !ok || name == nil {
		if err := cfg.Set("framework.job.name", c.runtime.Name()); err != nil {
			return nil, nil, err
		}
	}

	dirnameCfg := overrideDirnameConfigFromDoc(cfg)
	dirname := jobruntime.OverrideDirname(taskOverrides, dirnameCfg)
	if err := cfg.Set("framework.job.override_dirname", dirname); err != nil {
		return nil, nil, err
	}

	if configFile != nil {
		if err := cfg.Set("framework.job.config_file", *configFile); err != nil {
			return nil, nil, err
		}
	}

	if err := cfg.Set("framework.runtime.cwd", currentDir()); err != nil {
		return nil, nil, err
	}
	if _, ok := cfg.Cache()["framework.runtime.created_at"]; !ok {
		cfg.Cache()["framework.runtime.created_at"] = time.Now().UTC().Format(time.RFC3339)
	}
	if err := cfg.Set("framework.runtime.created_at", cfg.Cache()["framework.runtime.created_at"]); err != nil {
		return nil, nil, err
	}

	return cfg, st.Trace(), nil
}

// LoadSweepConfig runs load_sweep_config: it re-invokes Load for the same
// config file with the master's framework overrides plus sweepOverrides,
// then copies the master's runtime subtree and resolution cache into the
// result so sibling sweep children reproduce identical interpolated
// values (timestamps and similar).
func (c *Composer) LoadSweepConfig(ctx context.Context, master *document.Document, sweepOverrides []string) (*document.Document, error) {
	baseRaw, _ := master.Get("framework.overrides.framework")
	overrides := append(toStringSlice(baseRaw), sweepOverrides...)

	var configFile *string
	if raw, ok := master.Get("framework.job.config_file"); ok {
		if s, ok := raw.(string); ok && s != "" {
			configFile = &s
		}
	}

	child, _, err := c.Load(ctx, configFile, overrides, nil)
	if err != nil {
		return nil, err
	}

	if runtime, ok := master.Get("framework.runtime"); ok {
		if m, ok := runtime.(map[string]any); ok {
			for k, v := range m {
				if err := child.Set("framework.runtime."+k, v); err != nil {
					return nil, err
				}
			}
		}
	}

	child.CopyCacheFrom(master)

	return child, nil
}

func (c *Composer) mergeDefaultsList(ctx context.Context, cfg *document.Document, defs defaults.List, st *store.Store, lister *grouplist.Lister) (*document.Document, error) {
	for _, e := range defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var group, filename string
		var optional bool

		switch v := e.(type) {
		case defaults.GroupBinding:
			if v.IsDropped() || v.IsSkipped() {
				continue
			}
			group = v.Group
			filename = defaults.NormalizeFilename(*v.Choice)
			optional = v.Optional
		case defaults.BareFile:
			filename = defaults.NormalizeFilename(string(v))
		default:
			return nil, errors.Errorf("unsupported defaults entry kind %T", e)
		}

		lookup := filename
		if group != "" {
			lookup = path.Join(group, filename)
		}

		loaded, err := st.Load(lookup, true)
		if err != nil {
			return nil, err
		}
		if loaded == nil {
			if optional {
				continue
			}
			var siblings []string
			if group != "" {
				siblings, _ = lister.GetGroupOptions(group, grouplist.KindFile)
			}
			return nil, &ErrMissingConfig{Group: group, Name: filename, SiblingOptions: siblings}
		}

		merged, err := cfg.Merge(loaded)
		if err != nil {
			return nil, err
		}
		cfg = merged
	}
	return cfg, nil
}

func extractDefaults(doc *document.Document) (defaults.List, error) {
	raw, _ := doc.Get("defaults")
	list, err := defaults.FromRaw(raw)
	if err != nil {
		return nil, &ErrInvalidDefaults{Reason: err.Error()}
	}
	return list, nil
}

// frameworkSkeleton is the composer's own built-in baseline for the
// framework.* bookkeeping subtree, merged under whatever the loaded
// framework.yaml declares (the same embedded-default-then-user-overlay
// shape used elsewhere in this codebase). It exists so the bookkeeping
// keys written at the end of Load always pre-exist before strict mode is
// engaged — writing to an existing key is always allowed under strict
// mode, only creating a new one is not.
func frameworkSkeleton() *document.Document {
	return document.FromMap(map[string]any{
		"framework": map[string]any{
			"job": map[string]any{
				"name":             nil,
				"config_file":      nil,
				"override_dirname": nil,
				"config": map[string]any{
					"override_dirname": map[string]any{
						"kv_sep":       "=",
						"item_sep":     ",",
						"exclude_keys": []any{},
					},
				},
			},
			"overrides": map[string]any{
				"task":      []any{},
				"framework": []any{},
			},
			"runtime": map[string]any{
				"cwd":        nil,
				"created_at": nil,
			},
		},
	})
}

func overrideDirnameConfigFromDoc(cfg *document.Document) jobruntime.OverrideDirnameConfig {
	out := jobruntime.DefaultOverrideDirnameConfig()
	if v, ok := cfg.Get("framework.job.config.override_dirname.kv_sep"); ok {
		if s, ok := v.(string); ok {
			out.KVSep = s
		}
	}
	if v, ok := cfg.Get("framework.job.config.override_dirname.item_sep"); ok {
		if s, ok := v.(string); ok {
			out.ItemSep = s
		}
	}
	if v, ok := cfg.Get("framework.job.config.override_dirname.exclude_keys"); ok {
		out.ExcludeKeys = toStringSlice(v)
	}
	return out
}

func isFrameworkOverride(raw string) bool {
	key, _, err := override.Split(raw)
	if err != nil {
		return false
	}
	return strings.HasPrefix(key, "framework.") || strings.HasPrefix(key, "framework/")
}

func toStringSlice(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func currentDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}
