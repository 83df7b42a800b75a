package document

import "testing"

func TestParseRejectsNonMapRoot(t *testing.T) {
	_, err := Parse("list.yaml", []byte("- a\n- b\n"))
	if err == nil {
		t.Fatal("expected error for sequence root")
	}
	if _, ok := err.(*NonMapRootError); !ok {
		t.Errorf("error = %T, want *NonMapRootError", err)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	d, err := Parse("empty.yaml", []byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(d.Root()) != 0 {
		t.Errorf("Root() = %v, want empty", d.Root())
	}
}

func TestMergeRightBiased(t *testing.T) {
	base, _ := Parse("base.yaml", []byte("foo: 1\nbar: 2\n"))
	incoming, _ := Parse("incoming.yaml", []byte("bar: 3\nbaz: 4\n"))

	merged, err := base.Merge(incoming)
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if v, _ := merged.Get("foo"); v.(float64) != 1 {
		t.Errorf("foo = %v, want 1", v)
	}
	if v, _ := merged.Get("bar"); v.(float64) != 3 {
		t.Errorf("bar = %v, want 3 (incoming should win)", v)
	}
	if v, _ := merged.Get("baz"); v.(float64) != 4 {
		t.Errorf("baz = %v, want 4", v)
	}
}

func TestMergeIsNonDestructive(t *testing.T) {
	base, _ := Parse("base.yaml", []byte("foo: 1\n"))
	incoming, _ := Parse("incoming.yaml", []byte("foo: 2\n"))

	if _, err := base.Merge(incoming); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if v, _ := base.Get("foo"); v.(float64) != 1 {
		t.Errorf("base.foo = %v, want untouched 1", v)
	}
}

func TestSetDottedPath(t *testing.T) {
	d := New()
	if err := d.Set("model.lr", 0.1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok := d.Get("model.lr")
	if !ok {
		t.Fatal("model.lr not found after Set")
	}
	if v.(float64) != 0.1 {
		t.Errorf("model.lr = %v, want 0.1", v)
	}
}

func TestStrictModeRejectsUnknownKey(t *testing.T) {
	d, _ := Parse("cfg.yaml", []byte("foo: 1\n"))
	d.SetWholeStrict(true)

	err := d.Set("does.not.exist", 1)
	if err == nil {
		t.Fatal("expected strict-mode error")
	}
	if _, ok := err.(*StrictModeError); !ok {
		t.Errorf("error = %T, want *StrictModeError", err)
	}
}

func TestStrictModeAllowsExistingKey(t *testing.T) {
	d, _ := Parse("cfg.yaml", []byte("foo: 1\n"))
	d.SetWholeStrict(true)

	if err := d.Set("foo", 2); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, _ := d.Get("foo")
	if v.(float64) != 2 {
		t.Errorf("foo = %v, want 2", v)
	}
}

func TestNonStrictCreatesNewKey(t *testing.T) {
	d, _ := Parse("cfg.yaml", []byte("foo: 1\n"))

	if err := d.Set("does.not.exist", 1); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := d.Get("does.not.exist"); !ok {
		t.Error("expected does.not.exist to be created")
	}
}

func TestMarkStrictScopesToSubtree(t *testing.T) {
	d := New()
	d.MarkStrict("framework")
	if err := d.Set("framework.unknown", 1); err == nil {
		t.Error("expected strict error under framework subtree")
	}
	if err := d.Set("user.unknown", 1); err != nil {
		t.Errorf("user subtree should not be strict: %v", err)
	}
}

func TestDeleteRemovesKey(t *testing.T) {
	d, _ := Parse("cfg.yaml", []byte("model:\n  lr: 0.1\n"))
	if err := d.Delete("model"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := d.Get("model"); ok {
		t.Error("model should have been deleted")
	}
}

func TestCopyCacheFromTransplantsResolvedValues(t *testing.T) {
	master := New()
	master.Cache()["framework.runtime.created_at"] = "2026-07-31T00:00:00Z"

	child := New()
	child.CopyCacheFrom(master)

	if child.Cache()["framework.runtime.created_at"] != "2026-07-31T00:00:00Z" {
		t.Error("expected cache entry to be transplanted")
	}

	// Mutating the child cache must not affect the master's.
	child.Cache()["extra"] = 1
	if _, ok := master.Cache()["extra"]; ok {
		t.Error("cache copy should be independent")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	base, _ := Parse("cfg.yaml", []byte("foo: 1\n"))
	clone, err := base.Clone()
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	if err := clone.Set("foo", 2); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, _ := base.Get("foo"); v.(float64) != 1 {
		t.Error("clone mutation leaked into original")
	}
}
