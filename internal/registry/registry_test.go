package registry

import (
	"errors"
	"testing"
)

func testTasks() []Task {
	return []Task{
		{Name: "android", Paths: []string{"/usr/local/lib/android"}, DefaultEnabled: true, BackgroundEligible: true},
		{Name: "dotnet", Paths: []string{"/usr/share/dotnet"}, DefaultEnabled: false},
		{Name: "azure", Packages: []string{"azure-cli"}, Paths: []string{"/opt/az"}, DefaultEnabled: true},
	}
}

func mustNew(t *testing.T, tasks []Task) *Registry {
	t.Helper()
	r, err := New(tasks)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestResolveDefaults(t *testing.T) {
	r := mustNew(t, testTasks())

	enabled, err := r.Resolve(Config{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := map[string]bool{"android": true, "dotnet": false, "azure": true}
	for name, w := range want {
		if enabled[name] != w {
			t.Errorf("enabled[%q] = %v, want %v", name, enabled[name], w)
		}
	}
}

func TestResolveOverrides(t *testing.T) {
	tests := []struct {
		name     string
		override Override
		task     string
		want     bool
	}{
		{"keep overrides default-enabled", OverrideKeep, "android", false},
		{"keep overrides default-disabled", OverrideKeep, "dotnet", false},
		{"remove overrides default-enabled", OverrideRemove, "android", true},
		{"remove overrides default-disabled", OverrideRemove, "dotnet", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := mustNew(t, testTasks())
			enabled, err := r.Resolve(Config{Overrides: map[string]Override{tt.task: tt.override}})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if enabled[tt.task] != tt.want {
				t.Errorf("enabled[%q] = %v, want %v", tt.task, enabled[tt.task], tt.want)
			}
		})
	}
}

func TestResolveForceRemoveDisabledTask(t *testing.T) {
	r := mustNew(t, testTasks())

	enabled, err := r.Resolve(Config{Overrides: map[string]Override{"dotnet": OverrideRemove}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !enabled["dotnet"] {
		t.Error("dotnet should be enabled with force-remove")
	}
	if !enabled["android"] {
		t.Error("android default should be untouched by an unrelated override")
	}
}

func TestResolveUnknownOverride(t *testing.T) {
	r := mustNew(t, testTasks())

	_, err := r.Resolve(Config{Overrides: map[string]Override{"nonexistent-tool": OverrideKeep}})
	var unknownErr *UnknownTaskError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("Resolve error = %v, want UnknownTaskError", err)
	}
	if unknownErr.Name != "nonexistent-tool" {
		t.Errorf("UnknownTaskError.Name = %q", unknownErr.Name)
	}
}

func TestGet(t *testing.T) {
	r := mustNew(t, testTasks())

	task, err := r.Get("azure")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if task.Packages[0] != "azure-cli" {
		t.Errorf("Get(azure).Packages = %v", task.Packages)
	}

	if _, err := r.Get("missing"); err == nil {
		t.Error("Get(missing) should fail")
	}
}

func TestTasksPreservesOrder(t *testing.T) {
	r := mustNew(t, testTasks())

	got := r.Tasks()
	for i, want := range []string{"android", "dotnet", "azure"} {
		if got[i].Name != want {
			t.Errorf("Tasks()[%d] = %q, want %q", i, got[i].Name, want)
		}
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
	}{
		{"duplicate name", []Task{
			{Name: "android", Paths: []string{"/a"}},
			{Name: "android", Paths: []string{"/b"}},
		}},
		{"no targets", []Task{
			{Name: "empty"},
		}},
		{"invalid name", []Task{
			{Name: "Not A Flag", Paths: []string{"/a"}},
		}},
		{"overlapping paths", []Task{
			{Name: "a", Paths: []string{"/shared"}},
			{Name: "b", Paths: []string{"/shared"}},
		}},
		{"overlapping packages", []Task{
			{Name: "a", Packages: []string{"tool"}},
			{Name: "b", Packages: []string{"tool"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.tasks); err == nil {
				t.Error("New should reject invalid catalog")
			}
		})
	}
}

func TestBuiltinCatalog(t *testing.T) {
	r, err := New(Builtin())
	if err != nil {
		t.Fatalf("builtin catalog invalid: %v", err)
	}

	android, err := r.Get("android")
	if err != nil {
		t.Fatalf("builtin catalog has no android task: %v", err)
	}
	if !android.DefaultEnabled {
		t.Error("android should default to removal")
	}

	dotnet, err := r.Get("dotnet")
	if err != nil {
		t.Fatalf("builtin catalog has no dotnet task: %v", err)
	}
	if dotnet.DefaultEnabled {
		t.Error("dotnet should default to keep")
	}
}
