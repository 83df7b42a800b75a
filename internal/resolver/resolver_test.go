package resolver

import (
	"testing"
	"testing/fstest"

	"github.com/spf13/afero"

	"github.com/stratacfg/strata/internal/searchpath"
)

func memFs(files map[string]string) afero.Fs {
	fs := afero.NewMemMapFs()
	for name, content := range files {
		_ = afero.WriteFile(fs, name, []byte(content), 0o644)
	}
	return fs
}

func TestResolveFirstHitWins(t *testing.T) {
	early := memFs(map[string]string{"conf/model/a.yaml": "lr: 0.1\n"})
	late := memFs(map[string]string{"conf/model/a.yaml": "lr: 0.2\n"})

	sp := searchpath.New(
		searchpath.Entry{Provider: "early", Location: searchpath.FilesystemLocation{Fs: early, Dir: "conf"}},
		searchpath.Entry{Provider: "late", Location: searchpath.FilesystemLocation{Fs: late, Dir: "conf"}},
	)

	r := New(sp, nil)
	entry, err := r.Resolve("model/a.yaml")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if entry == nil {
		t.Fatal("expected a hit")
	}
	if entry.Provider != "early" {
		t.Errorf("Provider = %q, want %q (first hit wins)", entry.Provider, "early")
	}
}

func TestResolveMiss(t *testing.T) {
	sp := searchpath.New(
		searchpath.Entry{Provider: "only", Location: searchpath.FilesystemLocation{Fs: memFs(nil), Dir: "conf"}},
	)
	r := New(sp, nil)
	entry, err := r.Resolve("model/a.yaml")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if entry != nil {
		t.Errorf("expected no hit, got %+v", entry)
	}
}

func TestResolvePackageLocation(t *testing.T) {
	pkg := fstest.MapFS{
		"plugin.model/a.yaml": &fstest.MapFile{Data: []byte("lr: 0.3\n")},
	}
	sp := searchpath.New(
		searchpath.Entry{Provider: "plugin", Location: searchpath.PackageLocation{FS: pkg, Qualifier: "plugin.model"}},
	)
	r := New(sp, nil)
	entry, err := r.Resolve("a.yaml")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if entry == nil {
		t.Fatal("expected a hit in package location")
	}
}

func TestResolvePackageNotImportable(t *testing.T) {
	// A qualifier directory that exists but cannot be listed (no entries at
	// all under it, and fstest.MapFS has no notion of an unreadable dir,
	// so we simulate the condition with an FS that errors on ReadDir).
	pkg := brokenPackageFS{missingQualifier: "plugin.broken"}
	sp := searchpath.New(
		searchpath.Entry{Provider: "plugin", Location: searchpath.PackageLocation{FS: pkg, Qualifier: "plugin.broken"}},
	)
	r := New(sp, nil)
	_, err := r.Resolve("a.yaml")
	if err == nil {
		t.Fatal("expected package-not-importable error")
	}
	if _, ok := err.(*ErrPackageNotImportable); !ok {
		t.Errorf("error = %T, want *ErrPackageNotImportable", err)
	}
}
