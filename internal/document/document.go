// Package document implements the structured configuration tree that the
// composer merges: a map-rooted value tree with a per-path strict flag and
// a resolution cache, plus deep-merge and dotted-path access.
package document

import (
	"encoding/json"
	"strings"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// StrictModeError is returned when a dotted-path Set targets a key that
// does not already exist in a subtree marked strict.
type StrictModeError struct {
	Path string
}

func (e *StrictModeError) Error() string {
	return "strict mode: key not in struct: " + e.Path
}

// NonMapRootError is returned when a parsed document's top level is not a
// map (a sequence or scalar document root).
type NonMapRootError struct {
	Filename string
}

func (e *NonMapRootError) Error() string {
	return "top level config must be a mapping: " + e.Filename
}

// Document is a structured configuration tree.
type Document struct {
	root           map[string]any
	strictPrefixes map[string]bool
	wholeStrict    bool
	cache          map[string]any
}

// New returns an empty Document.
func New() *Document {
	return &Document{
		root:           map[string]any{},
		strictPrefixes: map[string]bool{},
		cache:          map[string]any{},
	}
}

// FromMap wraps an already-decoded map as a Document. The map is taken by
// reference; callers that need isolation should Clone first.
func FromMap(m map[string]any) *Document {
	if m == nil {
		m = map[string]any{}
	}
	return &Document{
		root:           m,
		strictPrefixes: map[string]bool{},
		cache:          map[string]any{},
	}
}

// Parse decodes YAML bytes into a Document. filename is used only for error
// messages. The root must decode to a mapping.
func Parse(filename string, data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	if raw == nil {
		return New(), nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &NonMapRootError{Filename: filename}
	}
	return FromMap(m), nil
}

// Root returns the underlying map. Callers must not mutate it directly;
// use Set/Merge instead so the strict and cache bookkeeping stays correct.
func (d *Document) Root() map[string]any {
	return d.root
}

// Clone returns an independent deep copy of the Document, including its
// strict-prefix set but not its resolution cache (see CopyCacheFrom).
func (d *Document) Clone() (*Document, error) {
	cp, err := deepCopyMap(d.root)
	if err != nil {
		return nil, err
	}
	out := &Document{
		root:           cp,
		strictPrefixes: cloneStrictSet(d.strictPrefixes),
		wholeStrict:    d.wholeStrict,
		cache:          map[string]any{},
	}
	return out, nil
}

// Merge returns a new Document holding the right-biased deep merge of d and
// other: values in other take precedence, maps are merged key by key, and
// lists are replaced wholesale rather than appended.
func (d *Document) Merge(other *Document) (*Document, error) {
	dst, err := deepCopyMap(d.root)
	if err != nil {
		return nil, errors.Wrap(err, "merge: copying base document")
	}
	src, err := deepCopyMap(other.root)
	if err != nil {
		return nil, errors.Wrap(err, "merge: copying incoming document")
	}
	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return nil, errors.Wrap(err, "merge")
	}
	out := &Document{
		root:           dst,
		strictPrefixes: cloneStrictSet(d.strictPrefixes),
		wholeStrict:    d.wholeStrict,
		cache:          map[string]any{},
	}
	return out, nil
}

// MarkStrict marks the subtree rooted at the given dotted path as strict,
// independent of the whole-document strict flag.
func (d *Document) MarkStrict(pathPrefix string) {
	d.strictPrefixes[pathPrefix] = true
}

// SetWholeStrict sets (or clears) the whole-document strict flag.
func (d *Document) SetWholeStrict(strict bool) {
	d.wholeStrict = strict
}

// IsStrict reports whether a dotted path falls under strict enforcement,
// either because the whole document is strict or because an ancestor path
// was explicitly marked strict via MarkStrict.
func (d *Document) IsStrict(path string) bool {
	if d.wholeStrict {
		return true
	}
	for prefix := range d.strictPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+".") {
			return true
		}
	}
	return false
}

// Get reads a dotted-path value. The bool return reports presence.
func (d *Document) Get(path string) (any, bool) {
	raw, err := d.toJSON()
	if err != nil {
		return nil, false
	}
	res := gjson.GetBytes(raw, gjsonPath(path))
	if !res.Exists() {
		return nil, false
	}
	return res.Value(), true
}

// Set writes a dotted-path value, merging it into the tree. If the path is
// under strict enforcement and does not already exist, Set returns a
// *StrictModeError instead of creating it.
func (d *Document) Set(path string, value any) error {
	if d.IsStrict(path) {
		if _, exists := d.Get(path); !exists {
			return &StrictModeError{Path: path}
		}
	}
	raw, err := d.toJSON()
	if err != nil {
		return errors.Wrap(err, "set: encoding document")
	}
	updated, err := sjson.SetBytes(raw, gjsonPath(path), value)
	if err != nil {
		return errors.Wrapf(err, "set: writing %s", path)
	}
	var m map[string]any
	if err := json.Unmarshal(updated, &m); err != nil {
		return errors.Wrap(err, "set: decoding document")
	}
	d.root = m
	return nil
}

// Delete removes a dotted-path key. It is not an error to delete a path
// that does not exist.
func (d *Document) Delete(path string) error {
	raw, err := d.toJSON()
	if err != nil {
		return errors.Wrap(err, "delete: encoding document")
	}
	updated, err := sjson.DeleteBytes(raw, gjsonPath(path))
	if err != nil {
		return errors.Wrapf(err, "delete: removing %s", path)
	}
	var m map[string]any
	if err := json.Unmarshal(updated, &m); err != nil {
		return errors.Wrap(err, "delete: decoding document")
	}
	d.root = m
	return nil
}

// Cache returns the resolution cache, lazily created on first use.
func (d *Document) Cache() map[string]any {
	if d.cache == nil {
		d.cache = map[string]any{}
	}
	return d.cache
}

// CopyCacheFrom copies another Document's resolution cache into this one,
// entry by entry, so already-resolved interpolated values (timestamps,
// and similar) are reproduced identically rather than recomputed.
func (d *Document) CopyCacheFrom(other *Document) {
	d.cache = map[string]any{}
	for k, v := range other.Cache() {
		d.cache[k] = v
	}
}

// ToYAML renders the document as YAML.
func (d *Document) ToYAML() ([]byte, error) {
	out, err := yaml.Marshal(d.root)
	if err != nil {
		return nil, errors.Wrap(err, "rendering document as yaml")
	}
	return out, nil
}

func (d *Document) toJSON() ([]byte, error) {
	if d.root == nil {
		d.root = map[string]any{}
	}
	return json.Marshal(d.root)
}

// gjsonPath rewrites a plain dotted path into gjson/sjson's own dotted
// syntax. The two already agree on '.' separators; this exists as a single
// seam in case future path syntax (array indices, escapes) needs
// translation.
func gjsonPath(path string) string {
	return path
}

func deepCopyMap(m map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func cloneStrictSet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
