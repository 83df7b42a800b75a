package defaults

import (
	"github.com/pkg/errors"
)

// FromRaw converts the decoded YAML value of a document's `defaults:`
// key (a list of strings and/or single-key maps, optionally with a
// sibling `optional: bool`) into a List. Any other shape is a structural
// error.
func FromRaw(raw any) (List, error) {
	if raw == nil {
		return List{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.New("defaults must be a list because composition is order sensitive")
	}

	out := make(List, 0, len(items))
	for _, item := range items {
		entry, err := entryFromRaw(item)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func entryFromRaw(item any) (Entry, error) {
	switch v := item.(type) {
	case string:
		return BareFile(v), nil
	case map[string]any:
		return groupBindingFromRaw(v)
	default:
		return nil, errors.Errorf("invalid defaults entry: unsupported shape %T", item)
	}
}

func groupBindingFromRaw(m map[string]any) (Entry, error) {
	optional := false
	if raw, ok := m["optional"]; ok {
		b, ok := raw.(bool)
		if !ok {
			return nil, errors.New("invalid defaults entry: optional must be a bool")
		}
		optional = b
		delete(m, "optional")
	}

	if len(m) != 1 {
		return nil, errors.New("invalid defaults entry: must have exactly one group key besides optional")
	}

	var group string
	var rawChoice any
	for k, v := range m {
		group = k
		rawChoice = v
	}

	gb := GroupBinding{Group: group, Optional: optional}
	if rawChoice == nil {
		gb.Choice = nil
		return gb, nil
	}
	choice, ok := rawChoice.(string)
	if !ok {
		return nil, errors.Errorf("invalid defaults entry: choice for group %q must be a string", group)
	}
	gb.Choice = &choice
	return gb, nil
}

// ToRaw renders a List back to the YAML-ready shape (inverse of
// FromRaw), used when a defaults entry needs re-serializing, e.g. for
// diagnostics.
func ToRaw(l List) []any {
	out := make([]any, 0, len(l))
	for _, e := range l {
		switch v := e.(type) {
		case BareFile:
			out = append(out, string(v))
		case GroupBinding:
			m := map[string]any{}
			if v.Choice == nil {
				m[v.Group] = nil
			} else {
				m[v.Group] = *v.Choice
			}
			if v.Optional {
				m["optional"] = true
			}
			out = append(out, m)
		}
	}
	return out
}
