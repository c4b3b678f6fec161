package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/IGLOU-EU/go-wildcard"
)

// Remover abstracts forced recursive removal so the engine can be tested
// without touching the real filesystem.
type Remover interface {
	// Measure reports the on-disk size of the targets matching path and
	// whether any exist. Used for dry runs.
	Measure(path string) (bytes int64, exists bool)

	// Remove deletes the targets matching path. A missing target is not an
	// error; removed reports whether anything was actually deleted.
	Remove(path string) (bytes int64, removed bool, err error)
}

// OSRemover is the production Remover backed by os.RemoveAll.
type OSRemover struct{}

// NewRemover returns a Remover operating on the host filesystem.
func NewRemover() *OSRemover {
	return &OSRemover{}
}

func (r *OSRemover) Measure(path string) (int64, bool) {
	var total int64
	exists := false
	for _, target := range Expand(path) {
		if _, err := os.Lstat(target); err != nil {
			continue
		}
		exists = true
		total += diskUsage(target)
	}
	return total, exists
}

func (r *OSRemover) Remove(path string) (int64, bool, error) {
	var total int64
	removed := false
	for _, target := range Expand(path) {
		if _, err := os.Lstat(target); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return total, removed, err
		}
		size := diskUsage(target)
		if err := os.RemoveAll(target); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return total, removed, err
		}
		total += size
		removed = true
	}
	return total, removed, nil
}

// Expand resolves a '*' wildcard in the last path element against the
// parent directory (e.g. /usr/local/julia* → /usr/local/julia-1.11.1).
// Plain paths are returned as-is; an unreadable parent yields no matches,
// which the caller treats as already absent.
func Expand(path string) []string {
	if !strings.Contains(path, "*") {
		return []string{path}
	}

	dir := filepath.Dir(path)
	pattern := filepath.Base(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var matches []string
	for _, entry := range entries {
		if wildcard.Match(pattern, entry.Name()) {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}
	return matches
}

// diskUsage walks the target and sums allocated blocks, falling back to
// apparent size where block counts are unavailable. Walk errors are
// skipped — the estimate is best effort and the tree is about to be
// deleted anyway.
func diskUsage(target string) int64 {
	var total int64
	_ = filepath.WalkDir(target, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			total += st.Blocks * 512
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}
