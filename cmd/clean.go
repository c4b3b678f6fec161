package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/lengau/pristine-ubuntu-action/internal/apt"
	"github.com/lengau/pristine-ubuntu-action/internal/core"
	"github.com/lengau/pristine-ubuntu-action/internal/engine"
	"github.com/lengau/pristine-ubuntu-action/internal/fsutil"
	"github.com/lengau/pristine-ubuntu-action/internal/registry"
	"github.com/lengau/pristine-ubuntu-action/internal/ui"
)

var (
	dryRun bool
	jobs   int
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove pre-installed software",
	Long: `Remove pre-installed software from the runner image.

Every tool has a --keep-<name> and --remove-<name> flag; without either,
its default applies (see 'pristine list'). A tool that is already absent
is not an error. Requires root unless --dry-run is given.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup plan without deleting")
	cleanCmd.Flags().IntVar(&jobs, "jobs", 0, "Maximum concurrent background deletions (0 = default)")

	// One keep/remove flag pair per catalog entry. An unknown flag fails
	// in cobra before any removal starts.
	for _, t := range registry.Builtin() {
		cleanCmd.Flags().Bool("keep-"+t.Name, false, "Keep "+t.Description)
		cleanCmd.Flags().Bool("remove-"+t.Name, false, "Remove "+t.Description)
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	reg, err := registry.New(registry.Builtin())
	if err != nil {
		return err
	}

	overrides, err := collectOverrides(cmd, reg)
	if err != nil {
		return err
	}
	cfg := registry.Config{Overrides: overrides, DryRun: dryRun}

	// Removing system packages and root-owned trees needs real privilege;
	// refusing up front beats failing every single task.
	if !dryRun && unix.Geteuid() != 0 {
		return fmt.Errorf("must run as root to remove system packages (try sudo, or --dry-run)")
	}

	logger := debugLogger()
	if !core.IsUbuntu() {
		fmt.Println(ui.Render(ui.StyleWarn, "warning: host is not Ubuntu; builtin targets assume the Ubuntu runner image layout"))
	}
	header := fmt.Sprintf("Cleaning %s", core.OSVersionString())
	if dryRun {
		header += " (dry run)"
	}
	fmt.Println(ui.Render(ui.StyleHeader, header))

	eng := engine.New(reg, apt.New(), fsutil.NewRemover(), engine.Options{
		Jobs:     jobs,
		Logger:   logger,
		OnResult: printResult,
	})

	report, err := eng.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	printSummary(report)
	if report.Failed() {
		_, _, _, failed := report.Counts()
		return fmt.Errorf("%d task(s) failed", failed)
	}
	return nil
}

// collectOverrides turns the per-task keep/remove flags into the override
// map. Setting both flags for one task is a contradiction, not a tiebreak.
func collectOverrides(cmd *cobra.Command, reg *registry.Registry) (map[string]registry.Override, error) {
	overrides := make(map[string]registry.Override)
	for _, t := range reg.Tasks() {
		keep, _ := cmd.Flags().GetBool("keep-" + t.Name)
		remove, _ := cmd.Flags().GetBool("remove-" + t.Name)
		switch {
		case keep && remove:
			return nil, fmt.Errorf("--keep-%s and --remove-%s are mutually exclusive", t.Name, t.Name)
		case keep:
			overrides[t.Name] = registry.OverrideKeep
		case remove:
			overrides[t.Name] = registry.OverrideRemove
		}
	}
	return overrides, nil
}

// printResult emits one status line per task as its result finalizes.
func printResult(t registry.Task, res engine.TaskResult) {
	switch res.Status {
	case engine.StatusRemoved:
		fmt.Printf("%s %-12s removed (%s)\n",
			ui.Render(ui.StyleSuccess, "✓"), t.Name, ui.FormatBytes(res.BytesFreed))
	case engine.StatusSkippedKept:
		fmt.Printf("%s %-12s kept\n", ui.Render(ui.StyleMuted, "-"), t.Name)
	case engine.StatusAlreadyAbsent:
		fmt.Printf("%s %-12s already absent\n", ui.Render(ui.StyleMuted, "·"), t.Name)
	case engine.StatusFailed:
		fmt.Printf("%s %-12s failed: %v\n", ui.Render(ui.StyleFail, "✗"), t.Name, res.Err)
	}
}

// printSummary emits the final run summary.
func printSummary(report *engine.Report) {
	removed, kept, absent, failed := report.Counts()

	fmt.Println()
	line := fmt.Sprintf("%d removed, %d kept, %d already absent, %d failed in %s",
		removed, kept, absent, failed, report.Duration.Round(time.Millisecond))
	if failed > 0 {
		fmt.Println(ui.Render(ui.StyleFail, line))
	} else {
		fmt.Println(ui.Render(ui.StyleHeader, line))
	}

	freed := fmt.Sprintf("Reclaimed %s", ui.FormatBytes(report.BytesFreed))
	if report.DryRun {
		freed = fmt.Sprintf("Would reclaim %s", ui.FormatBytes(report.BytesFreed))
	} else if report.DiskUsedBefore > report.DiskUsedAfter {
		freed += fmt.Sprintf(" (%s by filesystem usage)",
			ui.FormatBytes(int64(report.DiskUsedBefore-report.DiskUsedAfter)))
	}
	fmt.Println(ui.Render(ui.StyleSuccess, freed))
}
