package override

import (
	"github.com/stratacfg/strata/internal/defaults"
)

// Classification is the result of splitting raw overrides into the three
// phases the composer needs: group-rewrite, free-defaults, and the
// residual leaf sets applied after merge.
type Classification struct {
	// Defaults is the defaults list after phases 1 and 2 have mutated it.
	Defaults defaults.List
	// ConsumedGroup holds the overrides consumed by phase 1.
	ConsumedGroup []string
	// ConsumedFree holds the overrides consumed by phase 2.
	ConsumedFree []string
	// Residual holds every override neither phase consumed: these become
	// dotted-path sets applied post-merge.
	Residual []string
}

// GroupExistsFunc reports whether key names a group or document
// reachable from the root of the search path (used by phase 2 to decide
// whether an override is a "free" default addition).
type GroupExistsFunc func(key string) (bool, error)

// Classify runs phase 1 (group-rewrite) then phase 2 (free-defaults)
// against defs, in that order so phase 2 never shadows a rewrite phase 1
// already applied, then returns whatever's left as phase 3's residual.
//
// This ordering also resolves the "key=a,b where key is both a group
// name and a valid free-default group" question in favor of phase-1
// behavior: once phase 1 consumes an override it is removed from the set
// phase 2 considers, exactly mirroring the original implementation where
// _apply_defaults_overrides mutates the overrides list in place before
// _apply_free_defaults ever runs.
func Classify(defs defaults.List, overrides []string, groupExists GroupExistsFunc) (Classification, error) {
	defs = append(defaults.List{}, defs...)

	afterPhase1, consumedGroup := applyGroupRewrites(defs, overrides)

	remaining := subtract(overrides, consumedGroup)
	afterPhase2, consumedFree, err := applyFreeDefaults(afterPhase1, remaining, groupExists)
	if err != nil {
		return Classification{}, err
	}

	residual := subtract(remaining, consumedFree)

	return Classification{
		Defaults:      afterPhase2,
		ConsumedGroup: consumedGroup,
		ConsumedFree:  consumedFree,
		Residual:      residual,
	}, nil
}

// applyGroupRewrites is phase 1: for each override whose key matches an
// existing group in defs, mutate that entry's choice (or drop it, or
// mark it _SKIP_ for a sweep) and record the override as consumed. If
// the same group is rewritten by more than one override, the
// last-written choice wins but every matching override is recorded as
// consumed.
func applyGroupRewrites(defs defaults.List, overrides []string) (defaults.List, []string) {
	keyToIdx := map[string]int{}
	for i, e := range defs {
		if gb, ok := e.(defaults.GroupBinding); ok {
			keyToIdx[gb.Group] = i
		}
	}

	var consumed []string
	for _, raw := range overrides {
		key, value, err := Split(raw)
		if err != nil {
			continue
		}
		idx, ok := keyToIdx[key]
		if !ok {
			continue
		}

		gb := defs[idx].(defaults.GroupBinding)
		switch {
		case IsSweep(value):
			skip := defaults.SkipSentinel
			gb.Choice = &skip
		case IsNull(value):
			gb.Choice = nil
		default:
			v := value
			gb.Choice = &v
		}
		defs[idx] = gb
		consumed = append(consumed, raw)
	}

	return defs, consumed
}

// applyFreeDefaults is phase 2: for each remaining override whose key
// resolves as a directory/group on the search path, append a new
// GroupBinding (unless the value is a sweep, in which case it is
// deferred exactly like phase 1 defers sweeps, by simply not adding it
// now).
func applyFreeDefaults(defs defaults.List, overrides []string, groupExists GroupExistsFunc) (defaults.List, []string, error) {
	var consumed []string
	for _, raw := range overrides {
		key, value, err := Split(raw)
		if err != nil {
			continue
		}
		ok, err := groupExists(key)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}

		if !IsSweep(value) {
			v := value
			defs = append(defs, defaults.GroupBinding{Group: key, Choice: &v})
		}
		consumed = append(consumed, raw)
	}
	return defs, consumed, nil
}

func subtract(all, used []string) []string {
	usedSet := map[string]int{}
	for _, u := range used {
		usedSet[u]++
	}
	out := make([]string, 0, len(all))
	for _, a := range all {
		if usedSet[a] > 0 {
			usedSet[a]--
			continue
		}
		out = append(out, a)
	}
	return out
}
