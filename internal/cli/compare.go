package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/engine"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var (
		sheets   []string
		settings settingsFlags
	)

	cmd := &cobra.Command{
		Use:   "compare [items]",
		Short: "Compare packing results across alternative settings",
		Long: `Compare packing results across alternative settings.

Runs the current settings and what-if variants (the other algorithm, no
padding, no margin, rotation toggled, other sort orders) on the same input
and marks the best: most items placed, then fewest sheets, then least waste.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			out := printer{w: cmd.OutOrStdout()}

			p, sh, err := c.prepare(cmd, args[0], sheets, &settings)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			results := engine.CompareScenarios(engine.BuildDefaultScenarios(p.Settings), p.Items, sh, engine.WithLogger(logger))
			prog.done(fmt.Sprintf("Compared %d scenarios", len(results)))

			best := engine.Best(results)
			out.title("%-20s %8s %8s %10s %8s", "Scenario", "Sheets", "Placed", "Waste %", "Unplaced")
			for i, r := range results {
				line := fmt.Sprintf("%-20s %8d %8d %10.1f %8d", r.Scenario.Name, r.SheetsUsed, r.Placed, r.WastePercent, r.UnplacedCount)
				if i == best {
					out.success("%s", line)
				} else {
					out.detail("%s", line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sheets, "sheet", "s", nil, "sheet WxH[:qty] or inventory preset name (repeatable)")
	settings.register(cmd)
	return cmd
}
