package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lengau/pristine-ubuntu-action/internal/registry"
	"github.com/lengau/pristine-ubuntu-action/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List removable software and defaults",
	Long:  "List every tool the clean command knows about, its default, and what gets deleted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.New(registry.Builtin())
		if err != nil {
			return err
		}

		fmt.Println(ui.Render(ui.StyleHeader, fmt.Sprintf("%-12s %-8s %s", "NAME", "DEFAULT", "TARGETS")))
		for _, t := range reg.Tasks() {
			def := "remove"
			if !t.DefaultEnabled {
				def = "keep"
			}

			var targets []string
			targets = append(targets, t.Packages...)
			targets = append(targets, t.Paths...)
			fmt.Printf("%-12s %-8s %s\n", t.Name, def, strings.Join(targets, ", "))
		}
		return nil
	},
}
