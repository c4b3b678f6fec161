package registry

import (
	"fmt"
	"regexp"
	"sort"
)

// Task represents a single named cleanup unit: a set of packages to purge
// and/or paths to remove. Tasks are independent — no task may rely on
// another task's targets being gone.
type Task struct {
	// Name is the unique identifier, used in --keep-<name>/--remove-<name> flags.
	Name string

	// Packages is the ordered list of apt packages to purge. May be empty.
	Packages []string

	// Paths is the ordered list of filesystem paths to remove. May be empty.
	// The last path element may contain '*' wildcards, expanded at run time.
	Paths []string

	// DefaultEnabled controls whether the task runs when no override is given.
	DefaultEnabled bool

	// BackgroundEligible marks deletions large enough to run concurrently
	// with later tasks' package purges.
	BackgroundEligible bool

	// Description is a short human-readable summary of what gets removed.
	Description string

	// Note references the upstream runner-images installer this mirrors.
	Note string
}

// Override is a user instruction for one task, overriding its default.
type Override int

const (
	// OverrideUnset means use the task's DefaultEnabled.
	OverrideUnset Override = iota
	// OverrideKeep forces the task to be skipped.
	OverrideKeep
	// OverrideRemove forces the task to run.
	OverrideRemove
)

// Config is the resolved user intent for one run. It is built once at
// startup and never mutated afterwards.
type Config struct {
	Overrides map[string]Override
	DryRun    bool
}

// UnknownTaskError reports an override naming a task not in the registry.
// Overrides are rejected, never matched by prefix or silently dropped, so
// a typo in a keep flag fails the run before anything is removed.
type UnknownTaskError struct {
	Name string
}

func (e *UnknownTaskError) Error() string {
	return fmt.Sprintf("unknown task %q", e.Name)
}

// namePattern restricts task names to what survives as a flag suffix.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// Registry holds the static catalog of cleanup tasks in execution order.
type Registry struct {
	tasks  []Task
	byName map[string]int
}

// New builds a registry from the given tasks, validating the structural
// invariants: unique well-formed names, at least one target per task, and
// no package or path shared between two tasks.
func New(tasks []Task) (*Registry, error) {
	r := &Registry{
		tasks:  tasks,
		byName: make(map[string]int, len(tasks)),
	}

	seenPkg := make(map[string]string)
	seenPath := make(map[string]string)

	for i, t := range tasks {
		if !namePattern.MatchString(t.Name) {
			return nil, fmt.Errorf("task %d: invalid name %q", i, t.Name)
		}
		if _, dup := r.byName[t.Name]; dup {
			return nil, fmt.Errorf("duplicate task name %q", t.Name)
		}
		r.byName[t.Name] = i

		if len(t.Packages) == 0 && len(t.Paths) == 0 {
			return nil, fmt.Errorf("task %q has no packages and no paths", t.Name)
		}

		for _, p := range t.Packages {
			if owner, ok := seenPkg[p]; ok {
				return nil, fmt.Errorf("package %q targeted by both %q and %q", p, owner, t.Name)
			}
			seenPkg[p] = t.Name
		}
		for _, p := range t.Paths {
			if owner, ok := seenPath[p]; ok {
				return nil, fmt.Errorf("path %q targeted by both %q and %q", p, owner, t.Name)
			}
			seenPath[p] = t.Name
		}
	}

	return r, nil
}

// Get returns the task with the given name.
func (r *Registry) Get(name string) (Task, error) {
	i, ok := r.byName[name]
	if !ok {
		return Task{}, &UnknownTaskError{Name: name}
	}
	return r.tasks[i], nil
}

// Tasks returns all tasks in cleanup order.
func (r *Registry) Tasks() []Task {
	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Resolve computes the enabled state of every task under the given
// configuration: force-keep disables, force-remove enables, unset falls
// back to the task's default. An override for a name not in the registry
// is an error — nothing should be removed on the strength of a typo.
func (r *Registry) Resolve(cfg Config) (map[string]bool, error) {
	names := make([]string, 0, len(cfg.Overrides))
	for name := range cfg.Overrides {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic error on multiple typos

	for _, name := range names {
		if _, ok := r.byName[name]; !ok {
			return nil, &UnknownTaskError{Name: name}
		}
	}

	enabled := make(map[string]bool, len(r.tasks))
	for _, t := range r.tasks {
		switch cfg.Overrides[t.Name] {
		case OverrideKeep:
			enabled[t.Name] = false
		case OverrideRemove:
			enabled[t.Name] = true
		default:
			enabled[t.Name] = t.DefaultEnabled
		}
	}
	return enabled, nil
}
