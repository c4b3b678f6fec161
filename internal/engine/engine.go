package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/disk"

	"github.com/lengau/pristine-ubuntu-action/internal/apt"
	"github.com/lengau/pristine-ubuntu-action/internal/fsutil"
	"github.com/lengau/pristine-ubuntu-action/internal/registry"
)

// defaultJobs bounds concurrent background deletions when Options.Jobs
// is unset.
const defaultJobs = 4

// Options configures an Engine.
type Options struct {
	// Jobs is the maximum number of background path deletions in flight.
	Jobs int

	// Logger receives debug-level detail. Nil discards it.
	Logger *log.Logger

	// OnResult, if set, is called once per task as its result becomes
	// final. Background tasks may finalize out of registry order.
	OnResult func(registry.Task, TaskResult)
}

// Engine runs the enabled subset of a registry's tasks with uniform
// error-suppression semantics: missing targets are fine, everything else
// fails the task but never the tasks around it.
type Engine struct {
	reg      *registry.Registry
	pkgs     apt.Manager
	fs       fsutil.Remover
	log      *log.Logger
	onResult func(registry.Task, TaskResult)
	jobs     int

	// aptMu serializes every package-manager invocation; the dpkg
	// database lock is the one resource tasks share.
	aptMu sync.Mutex
}

// New builds an Engine over the given registry and backends.
func New(reg *registry.Registry, pkgs apt.Manager, fs fsutil.Remover, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = defaultJobs
	}
	return &Engine{
		reg:      reg,
		pkgs:     pkgs,
		fs:       fs,
		log:      logger,
		onResult: opts.OnResult,
		jobs:     jobs,
	}
}

// Run executes every enabled task and returns the aggregate report.
// Resolution failures (an override naming an unknown task) abort the run
// before anything is touched. Per-task failures do not stop other tasks;
// they are collected so one invocation surfaces every problem at once.
func (e *Engine) Run(ctx context.Context, cfg registry.Config) (*Report, error) {
	enabled, err := e.reg.Resolve(cfg)
	if err != nil {
		return nil, err
	}

	tasks := e.reg.Tasks()
	results := make([]TaskResult, len(tasks))
	start := time.Now()
	usedBefore := rootUsage()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		purgedAny bool
	)
	sem := make(chan struct{}, e.jobs)

	finish := func(i int, t registry.Task, res TaskResult) {
		mu.Lock()
		results[i] = res
		mu.Unlock()
		if e.onResult != nil {
			e.onResult(t, res)
		}
	}

	for i, task := range tasks {
		if ctx.Err() != nil {
			break // aborted: stop issuing work, join what is in flight
		}

		if !enabled[task.Name] {
			e.log.Printf("%s: kept", task.Name)
			finish(i, task, TaskResult{Task: task.Name, Status: StatusSkippedKept})
			continue
		}

		pkgRemoved, pkgErr := e.purgePackages(ctx, task, cfg.DryRun)
		if pkgErr != nil {
			finish(i, task, TaskResult{Task: task.Name, Status: StatusFailed, Err: pkgErr})
			continue
		}
		if pkgRemoved && !cfg.DryRun {
			mu.Lock()
			purgedAny = true
			mu.Unlock()
		}

		// Large deletions overlap with later tasks' purges; the dpkg lock
		// stays serialized behind aptMu either way.
		if task.BackgroundEligible && !cfg.DryRun {
			wg.Add(1)
			go func(i int, t registry.Task) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				finish(i, t, e.removePaths(t, pkgRemoved, false))
			}(i, task)
			continue
		}

		finish(i, task, e.removePaths(task, pkgRemoved, cfg.DryRun))
	}

	// Join all background deletions before reporting: no in-flight work
	// may be silently lost on a successful run.
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if purgedAny {
		e.aptCleanup(ctx)
	}

	report := &Report{
		Results:        results,
		DiskUsedBefore: usedBefore,
		DiskUsedAfter:  rootUsage(),
		Duration:       time.Since(start),
		DryRun:         cfg.DryRun,
	}
	for _, res := range results {
		report.BytesFreed += res.BytesFreed
	}
	return report, nil
}

// purgePackages purges the task's packages in order. A purge failure is
// disambiguated by re-querying the dpkg database: a package that is not
// actually installed is treated as already absent, while a genuinely
// failed purge aborts the task's remaining packages. Returns whether any
// package was (or in a dry run, would be) removed.
func (e *Engine) purgePackages(ctx context.Context, t registry.Task, dryRun bool) (bool, error) {
	removed := false
	for _, pkg := range t.Packages {
		e.aptMu.Lock()
		ok, err := e.purgeOne(ctx, t, pkg, dryRun)
		e.aptMu.Unlock()
		if err != nil {
			return removed, err
		}
		if ok {
			removed = true
		}
	}
	return removed, nil
}

// purgeOne handles a single package under the apt mutex.
func (e *Engine) purgeOne(ctx context.Context, t registry.Task, pkg string, dryRun bool) (bool, error) {
	installed, err := e.pkgs.Installed(ctx, pkg)
	if err != nil {
		return false, fmt.Errorf("package %s: %w", pkg, err)
	}
	if !installed {
		e.log.Printf("%s: package %s already absent", t.Name, pkg)
		return false, nil
	}
	if dryRun {
		e.log.Printf("%s: would purge %s", t.Name, pkg)
		return true, nil
	}

	if err := e.pkgs.Purge(ctx, pkg); err != nil {
		// apt's exit code alone cannot distinguish "was not installed"
		// from a real failure, so ask the database again.
		still, qerr := e.pkgs.Installed(ctx, pkg)
		if qerr == nil && !still {
			e.log.Printf("%s: purge of %s reported failure but package is gone", t.Name, pkg)
			return false, nil
		}
		return false, fmt.Errorf("package %s: %w", pkg, err)
	}
	e.log.Printf("%s: purged %s", t.Name, pkg)
	return true, nil
}

// removePaths removes the task's paths and folds the package outcome into
// the final TaskResult. Missing paths are ignored; any other filesystem
// error fails the task but remaining paths are still attempted.
func (e *Engine) removePaths(t registry.Task, pkgRemoved, dryRun bool) TaskResult {
	res := TaskResult{Task: t.Name}
	removed := pkgRemoved
	var errs []error

	for _, path := range t.Paths {
		if dryRun {
			if bytes, exists := e.fs.Measure(path); exists {
				e.log.Printf("%s: would remove %s (%d bytes)", t.Name, path, bytes)
				res.BytesFreed += bytes
				removed = true
			}
			continue
		}

		bytes, rm, err := e.fs.Remove(path)
		res.BytesFreed += bytes
		if err != nil {
			errs = append(errs, fmt.Errorf("path %s: %w", path, err))
			continue
		}
		if rm {
			e.log.Printf("%s: removed %s (%d bytes)", t.Name, path, bytes)
			removed = true
		} else {
			e.log.Printf("%s: path %s already absent", t.Name, path)
		}
	}

	switch {
	case len(errs) > 0:
		res.Status = StatusFailed
		res.Err = errors.Join(errs...)
	case removed:
		res.Status = StatusRemoved
	default:
		res.Status = StatusAlreadyAbsent
	}
	return res
}

// aptCleanup drops orphaned dependencies and the archive cache after a
// run that purged something. Best effort: failures are logged, not fatal.
func (e *Engine) aptCleanup(ctx context.Context) {
	e.aptMu.Lock()
	defer e.aptMu.Unlock()

	if err := e.pkgs.AutoRemove(ctx); err != nil {
		e.log.Printf("apt autoremove: %v", err)
	}
	if err := e.pkgs.Clean(ctx); err != nil {
		e.log.Printf("apt clean: %v", err)
	}
}

// rootUsage samples used bytes on the root filesystem, 0 if unavailable.
func rootUsage() uint64 {
	usage, err := disk.Usage("/")
	if err != nil {
		return 0
	}
	return usage.Used
}
