package apt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
)

const (
	// purgeTimeout is the maximum time to wait for a single apt-get invocation.
	purgeTimeout = 5 * time.Minute

	// queryTimeout bounds dpkg-query calls, which should be near-instant.
	queryTimeout = 30 * time.Second

	// lockRetries is how many times a lock-contended apt call is retried.
	lockRetries = 5
)

// lockPattern matches the messages apt/dpkg print while another process
// holds the database lock. Fresh runners routinely have unattended-upgrades
// or provisioning still holding it, so these failures are transient.
var lockPattern = regexp.MustCompile(`(?i)could not get lock|lock-frontend|is another process using it\??|dpkg status database is locked`)

// Manager abstracts the system package manager so the engine can be tested
// against a fake dpkg database.
type Manager interface {
	// Purge removes the package including its configuration files.
	Purge(ctx context.Context, pkg string) error
	// Installed reports whether the package is currently installed.
	Installed(ctx context.Context, pkg string) (bool, error)
	// AutoRemove drops packages that became orphaned by earlier purges.
	AutoRemove(ctx context.Context) error
	// Clean empties the local package archive cache.
	Clean(ctx context.Context) error
}

// AptGet is the production Manager, shelling out to apt-get and dpkg-query.
type AptGet struct{}

// New returns a Manager backed by the host's apt-get.
func New() *AptGet {
	return &AptGet{}
}

func (a *AptGet) Purge(ctx context.Context, pkg string) error {
	return a.withLockRetry(ctx, func() error {
		return a.run(ctx, purgeTimeout, "purge", "-y", pkg)
	})
}

func (a *AptGet) AutoRemove(ctx context.Context) error {
	return a.withLockRetry(ctx, func() error {
		return a.run(ctx, purgeTimeout, "autoremove", "-y")
	})
}

func (a *AptGet) Clean(ctx context.Context) error {
	return a.withLockRetry(ctx, func() error {
		return a.run(ctx, purgeTimeout, "clean")
	})
}

// Installed queries the dpkg database directly. apt-get's exit code cannot
// distinguish "purge failed" from "was never installed" on its own, so the
// engine calls this to disambiguate.
func (a *AptGet) Installed(ctx context.Context, pkg string) (bool, error) {
	runCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "dpkg-query", "-W", "-f=${db:Status-Status}", pkg)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// dpkg-query exits 1 when the package is not in the database.
			return false, nil
		}
		return false, fmt.Errorf("dpkg-query %s: %w", pkg, err)
	}
	return installedStatus(string(output)), nil
}

// installedStatus interprets a dpkg ${db:Status-Status} value. Anything
// other than "installed" (config-files, half-installed, ...) is treated
// as not installed: there is nothing a purge can usefully remove.
func installedStatus(out string) bool {
	return strings.TrimSpace(out) == "installed"
}

// withLockRetry retries op with exponential backoff while it fails on
// apt/dpkg lock contention. Any other failure is returned immediately.
func (a *AptGet) withLockRetry(ctx context.Context, op func() error) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isLockError(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), lockRetries),
		ctx,
	)
	return backoff.Retry(wrapped, bo)
}

// isLockError reports whether err looks like apt/dpkg lock contention.
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	return lockPattern.MatchString(err.Error())
}

// run executes apt-get with the given arguments, non-interactively.
func (a *AptGet) run(ctx context.Context, timeout time.Duration, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "apt-get", args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return wrapExitError(args, err, output, timeout)
	}
	return nil
}

// wrapExitError turns a subprocess failure into an error carrying the
// command, exit code, and a bounded slice of its output.
func wrapExitError(args []string, err error, output []byte, timeout time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("apt-get %s timed out after %s", args[0], timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out := truncateOutput(string(output))
		if out != "" {
			return fmt.Errorf("apt-get %s failed (exit code %d): %s", args[0], exitErr.ExitCode(), out)
		}
		return fmt.Errorf("apt-get %s failed (exit code %d)", args[0], exitErr.ExitCode())
	}

	return fmt.Errorf("apt-get %s: %w", args[0], err)
}

// truncateOutput bounds command output at 300 bytes, cutting at a valid
// UTF-8 boundary.
func truncateOutput(out string) string {
	out = strings.TrimSpace(out)
	if len(out) <= 300 {
		return out
	}
	out = out[:300]
	for len(out) > 0 && !utf8.ValidString(out) {
		out = out[:len(out)-1]
	}
	return out + "..."
}
