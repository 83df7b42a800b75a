package pkgresource

import (
	"io/fs"
	"testing"
)

func TestEntryExposesFrameworkResource(t *testing.T) {
	entry := Entry()
	if entry.Provider != "builtin" {
		t.Errorf("Provider = %s, want builtin", entry.Provider)
	}
	data, err := fs.ReadFile(FS, "resources/framework.yaml")
	if err != nil {
		t.Fatalf("reading embedded framework.yaml: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty embedded framework.yaml")
	}
}
