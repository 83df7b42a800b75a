package override

import (
	"testing"

	"github.com/stratacfg/strata/internal/defaults"
)

func choice(s string) *string { return &s }

func noGroups(string) (bool, error) { return false, nil }

func TestClassifyGroupRewrite(t *testing.T) {
	defs := defaults.List{defaults.GroupBinding{Group: "model", Choice: choice("a")}}
	c, err := Classify(defs, []string{"model=b"}, noGroups)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(c.ConsumedGroup) != 1 || c.ConsumedGroup[0] != "model=b" {
		t.Errorf("ConsumedGroup = %v", c.ConsumedGroup)
	}
	gb := c.Defaults[0].(defaults.GroupBinding)
	if gb.Choice == nil || *gb.Choice != "b" {
		t.Errorf("choice = %v, want b", gb.Choice)
	}
	if len(c.Residual) != 0 {
		t.Errorf("Residual = %v, want empty", c.Residual)
	}
}

func TestClassifyGroupRewriteNullDropsEntry(t *testing.T) {
	defs := defaults.List{defaults.GroupBinding{Group: "model", Choice: choice("a")}}
	c, err := Classify(defs, []string{"model=null"}, noGroups)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	gb := c.Defaults[0].(defaults.GroupBinding)
	if !gb.IsDropped() {
		t.Error("expected dropped binding")
	}
}

func TestClassifyGroupRewriteSweepMarksSkip(t *testing.T) {
	defs := defaults.List{defaults.GroupBinding{Group: "model", Choice: choice("a")}}
	c, err := Classify(defs, []string{"model=a,b"}, noGroups)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	gb := c.Defaults[0].(defaults.GroupBinding)
	if !gb.IsSkipped() {
		t.Error("expected _SKIP_ sentinel")
	}
}

func TestClassifyFreeDefaultsPhaseAddsNewBinding(t *testing.T) {
	exists := func(key string) (bool, error) { return key == "model", nil }
	c, err := Classify(defaults.List{}, []string{"model=alexnet"}, exists)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(c.ConsumedFree) != 1 {
		t.Fatalf("ConsumedFree = %v", c.ConsumedFree)
	}
	if len(c.Defaults) != 1 {
		t.Fatalf("Defaults len = %d, want 1", len(c.Defaults))
	}
}

func TestClassifyResidualsAreLeafSets(t *testing.T) {
	c, err := Classify(defaults.List{}, []string{"model.lr=0.1"}, noGroups)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(c.Residual) != 1 || c.Residual[0] != "model.lr=0.1" {
		t.Errorf("Residual = %v", c.Residual)
	}
}

func TestClassifyDisjointness(t *testing.T) {
	defs := defaults.List{defaults.GroupBinding{Group: "model", Choice: choice("a")}}
	exists := func(key string) (bool, error) { return key == "dataset", nil }
	overrides := []string{"model=b", "dataset=imagenet", "foo.bar=1"}

	c, err := Classify(defs, overrides, exists)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	total := len(c.ConsumedGroup) + len(c.ConsumedFree) + len(c.Residual)
	if total != len(overrides) {
		t.Errorf("total classified = %d, want %d", total, len(overrides))
	}

	seen := map[string]int{}
	for _, o := range c.ConsumedGroup {
		seen[o]++
	}
	for _, o := range c.ConsumedFree {
		seen[o]++
	}
	for _, o := range c.Residual {
		seen[o]++
	}
	for _, o := range overrides {
		if seen[o] != 1 {
			t.Errorf("override %q classified %d times, want exactly 1", o, seen[o])
		}
	}
}

func TestClassifyGroupRewriteDeterminismLastWriteWinsBothConsumed(t *testing.T) {
	defs := defaults.List{defaults.GroupBinding{Group: "model", Choice: choice("a")}}
	c, err := Classify(defs, []string{"model=x", "model=y"}, noGroups)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if len(c.ConsumedGroup) != 2 {
		t.Fatalf("ConsumedGroup = %v, want both recorded as consumed", c.ConsumedGroup)
	}
	gb := c.Defaults[0].(defaults.GroupBinding)
	if *gb.Choice != "y" {
		t.Errorf("choice = %q, want last-write y", *gb.Choice)
	}
}

func TestClassifyPhase1PrecedesPhase2ForSameKey(t *testing.T) {
	// A key that is both an existing group (phase 1 target) and would
	// also resolve as a free-default group must be handled entirely by
	// phase 1; phase 2 must never see it.
	defs := defaults.List{defaults.GroupBinding{Group: "model", Choice: choice("a")}}
	sawInPhase2 := false
	exists := func(key string) (bool, error) {
		if key == "model" {
			sawInPhase2 = true
		}
		return true, nil
	}
	c, err := Classify(defs, []string{"model=a,b"}, exists)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if sawInPhase2 {
		t.Error("phase 2 should never see a key phase 1 already consumed")
	}
	if len(c.ConsumedFree) != 0 {
		t.Errorf("ConsumedFree = %v, want empty", c.ConsumedFree)
	}
	gb := c.Defaults[0].(defaults.GroupBinding)
	if !gb.IsSkipped() {
		t.Error("expected sweep sentinel from phase 1, not a dropped phase-2 entry")
	}
}
