package fsutil

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRemoveDirectory(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "sdk")
	writeTree(t, target, map[string]string{
		"tools/adb":       "binary",
		"platforms/33/x":  "data",
		"licenses/notice": "text",
	})

	r := NewRemover()
	bytes, removed, err := r.Remove(target)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("removed = false for existing directory")
	}
	if bytes <= 0 {
		t.Errorf("bytes = %d, want > 0", bytes)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("target still exists")
	}
}

func TestRemoveAbsentPath(t *testing.T) {
	r := NewRemover()
	bytes, removed, err := r.Remove(filepath.Join(t.TempDir(), "never-existed"))
	if err != nil {
		t.Fatalf("Remove of absent path: %v", err)
	}
	if removed || bytes != 0 {
		t.Errorf("removed=%v bytes=%d for absent path", removed, bytes)
	}
}

func TestRemoveWildcard(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"julia-1.10.0/bin/julia": "a",
		"julia-1.11.1/bin/julia": "b",
		"node-v20/bin/node":      "keep me",
	})

	r := NewRemover()
	_, removed, err := r.Remove(filepath.Join(root, "julia*"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("removed = false, wildcard had two matches")
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "node-v20" {
		t.Errorf("leftover entries = %v, want only node-v20", entries)
	}
}

func TestRemoveWildcardNoMatches(t *testing.T) {
	r := NewRemover()
	_, removed, err := r.Remove(filepath.Join(t.TempDir(), "julia*"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed {
		t.Error("removed = true with no matches")
	}
}

func TestMeasure(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "dotnet")
	writeTree(t, target, map[string]string{"sdk/8.0/dotnet": "payload"})

	r := NewRemover()
	bytes, exists := r.Measure(target)
	if !exists {
		t.Fatal("exists = false")
	}
	if bytes <= 0 {
		t.Errorf("bytes = %d, want > 0", bytes)
	}

	// Measure must not delete anything.
	if _, err := os.Stat(target); err != nil {
		t.Errorf("target disturbed by Measure: %v", err)
	}

	if _, exists := r.Measure(filepath.Join(root, "missing")); exists {
		t.Error("exists = true for missing path")
	}
}

func TestExpandPlainPath(t *testing.T) {
	got := Expand("/usr/share/swift")
	if len(got) != 1 || got[0] != "/usr/share/swift" {
		t.Errorf("Expand = %v", got)
	}
}

func TestExpandUnreadableParent(t *testing.T) {
	if got := Expand("/no/such/dir/julia*"); got != nil {
		t.Errorf("Expand = %v, want nil", got)
	}
}
