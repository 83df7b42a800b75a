package jobruntime

import (
	"strings"
	"testing"
)

func TestNewGivesDistinctNames(t *testing.T) {
	a := New().Name()
	b := New().Name()
	if a == b {
		t.Error("expected distinct default job names")
	}
	if !strings.HasPrefix(a, "job-") {
		t.Errorf("name %q should start with job-", a)
	}
}

func TestOverrideDirnameJoinsInApplicationOrder(t *testing.T) {
	got := OverrideDirname([]string{"model=alexnet", "dataset=imagenet"}, DefaultOverrideDirnameConfig())
	want := "model=alexnet,dataset=imagenet"
	if got != want {
		t.Errorf("OverrideDirname() = %q, want %q", got, want)
	}
}

func TestOverrideDirnameCustomSeparators(t *testing.T) {
	cfg := OverrideDirnameConfig{KVSep: ":", ItemSep: "|"}
	got := OverrideDirname([]string{"a=1", "b=2"}, cfg)
	if got != "a:1|b:2" {
		t.Errorf("OverrideDirname() = %q", got)
	}
}

func TestOverrideDirnameExcludesKeys(t *testing.T) {
	cfg := DefaultOverrideDirnameConfig()
	cfg.ExcludeKeys = []string{"secret"}
	got := OverrideDirname([]string{"model=a", "secret=xyz"}, cfg)
	if got != "model=a" {
		t.Errorf("OverrideDirname() = %q, want excluded key dropped", got)
	}
}

func TestSanitizeForPath(t *testing.T) {
	if got := SanitizeForPath("model=a/../../etc"); strings.Contains(got, "..") {
		t.Errorf("SanitizeForPath() = %q, still contains traversal", got)
	}
}
