package engine

import (
	"time"
)

// TaskStatus classifies the outcome of one cleanup task.
type TaskStatus int

const (
	// StatusRemoved means at least one package or path was actually deleted.
	StatusRemoved TaskStatus = iota
	// StatusSkippedKept means the task was disabled by default or override.
	StatusSkippedKept
	// StatusAlreadyAbsent means every target was already missing.
	StatusAlreadyAbsent
	// StatusFailed means a removal that should have succeeded did not.
	StatusFailed
)

func (s TaskStatus) String() string {
	switch s {
	case StatusRemoved:
		return "removed"
	case StatusSkippedKept:
		return "kept"
	case StatusAlreadyAbsent:
		return "absent"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TaskResult is the immutable outcome of running one task.
type TaskResult struct {
	Task       string
	Status     TaskStatus
	BytesFreed int64

	// Err carries the underlying failure(s) when Status is StatusFailed,
	// naming the offending package or path.
	Err error
}

// Report aggregates a whole run. Results are in registry order regardless
// of the order background deletions completed in.
type Report struct {
	Results    []TaskResult
	BytesFreed int64

	// DiskUsedBefore/After are root-filesystem usage samples taken around
	// the run. Zero when sampling was unavailable.
	DiskUsedBefore uint64
	DiskUsedAfter  uint64

	Duration time.Duration
	DryRun   bool
}

// Failed reports whether any task ended in StatusFailed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Counts returns the number of tasks per outcome.
func (r *Report) Counts() (removed, kept, absent, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusRemoved:
			removed++
		case StatusSkippedKept:
			kept++
		case StatusAlreadyAbsent:
			absent++
		case StatusFailed:
			failed++
		}
	}
	return
}
