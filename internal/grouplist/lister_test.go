package grouplist

import (
	"testing"

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

func TestListGroupsUnionsAcrossProviders(t *testing.T) {
	a := memFs(map[string]string{"conf/model/.keep": ""})
	b := memFs(map[string]string{"conf/dataset/.keep": ""})
	sp := searchpath.New(
		searchpath.Entry{Provider: "a", Location: searchpath.FilesystemLocation{Fs: a, Dir: "conf"}},
		searchpath.Entry{Provider: "b", Location: searchpath.FilesystemLocation{Fs: b, Dir: "conf"}},
	)
	l := New(sp)
	groups, err := l.ListGroups("")
	if err != nil {
		t.Fatalf("ListGroups() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %v, want [dataset model]", groups)
	}
}

func TestGetGroupOptionsFilesStripsExtension(t *testing.T) {
	fs := memFs(map[string]string{
		"conf/model/a.yaml": "lr: 0.1\n",
		"conf/model/b.yml":  "lr: 0.2\n",
	})
	sp := searchpath.New(searchpath.Entry{Provider: "conf", Location: searchpath.FilesystemLocation{Fs: fs, Dir: "conf"}})
	l := New(sp)
	opts, err := l.GetGroupOptions("model", KindFile)
	if err != nil {
		t.Fatalf("GetGroupOptions() error = %v", err)
	}
	if len(opts) != 2 || opts[0] != "a" || opts[1] != "b" {
		t.Errorf("opts = %v, want [a b]", opts)
	}
}

func TestGetGroupOptionsExcludesHousekeeping(t *testing.T) {
	fs := memFs(map[string]string{
		"conf/model/a.yaml":           "lr: 0.1\n",
		"conf/model/_disabled.yaml":   "lr: 0.3\n",
		"conf/model/__pycache__/x.py": "",
	})
	sp := searchpath.New(searchpath.Entry{Provider: "conf", Location: searchpath.FilesystemLocation{Fs: fs, Dir: "conf"}})
	l := New(sp)
	opts, err := l.GetGroupOptions("model", KindFile)
	if err != nil {
		t.Fatalf("GetGroupOptions() error = %v", err)
	}
	for _, o := range opts {
		if o == "_disabled" {
			t.Error("housekeeping entry should have been excluded")
		}
	}
	dirs, err := l.GetGroupOptions("model", KindDir)
	if err != nil {
		t.Fatalf("GetGroupOptions() error = %v", err)
	}
	for _, d := range dirs {
		if d == "__pycache__" {
			t.Error("__pycache__ should have been excluded")
		}
	}
}

func TestGetGroupOptionsDeduplicatesAcrossProviders(t *testing.T) {
	a := memFs(map[string]string{"conf/model/a.yaml": "lr: 0.1\n"})
	b := memFs(map[string]string{"conf/model/a.yaml": "lr: 0.2\n"})
	sp := searchpath.New(
		searchpath.Entry{Provider: "a", Location: searchpath.FilesystemLocation{Fs: a, Dir: "conf"}},
		searchpath.Entry{Provider: "b", Location: searchpath.FilesystemLocation{Fs: b, Dir: "conf"}},
	)
	l := New(sp)
	opts, err := l.GetGroupOptions("model", KindFile)
	if err != nil {
		t.Fatalf("GetGroupOptions() error = %v", err)
	}
	if len(opts) != 1 {
		t.Errorf("opts = %v, want single deduplicated entry", opts)
	}
}

func TestGetGroupOptionsSingleJoinNotDouble(t *testing.T) {
	// Regression test for the spec's Open Question 2: the group name must
	// be joined into the search-path directory exactly once, not twice
	// (conf/model/model/...).
	fs := memFs(map[string]string{"conf/model/a.yaml": "lr: 0.1\n"})
	sp := searchpath.New(searchpath.Entry{Provider: "conf", Location: searchpath.FilesystemLocation{Fs: fs, Dir: "conf"}})
	l := New(sp)
	opts, err := l.GetGroupOptions("model", KindFile)
	if err != nil {
		t.Fatalf("GetGroupOptions() error = %v", err)
	}
	if len(opts) != 1 || opts[0] != "a" {
		t.Errorf("opts = %v, want [a] (single-join semantics)", opts)
	}
}
