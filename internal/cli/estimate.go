package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/model"
)

// estimateCommand creates the estimate command.
func (c *CLI) estimateCommand() *cobra.Command {
	var (
		sheets   []string
		slack    float64
		settings settingsFlags
	)

	cmd := &cobra.Command{
		Use:   "estimate [items]",
		Short: "Estimate how many sheets an item list needs",
		Long: `Estimate how many sheets an item list needs from total area alone.

The estimate uses the first sheet and adds --slack percent on top of the
area bound, since real packings always leave some space unused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{w: cmd.OutOrStdout()}

			p, sh, err := c.prepare(cmd, args[0], sheets, &settings)
			if err != nil {
				return err
			}
			if slack < 0 {
				return fmt.Errorf("slack must not be negative")
			}

			sheet := sh[0]
			est := model.CalculateSheetEstimate(p.Items, sheet.Width, sheet.Height, p.Settings, slack)

			out.title("Estimate for %s (%dx%d)", sheet.Label, sheet.Width, sheet.Height)
			out.keyValue("Items", fmt.Sprint(est.ItemCount))
			out.keyValue("Item area", fmt.Sprintf("%d px²", est.TotalItemArea))
			out.keyValue("Sheet area", fmt.Sprintf("%d px²", est.SheetArea))
			out.keyValue("Exact", fmt.Sprintf("%.2f", est.SheetsNeededExact))
			out.keyValue("Minimum", fmt.Sprint(est.SheetsNeededMin))
			out.keyValue("With slack", fmt.Sprintf("%d (+%.0f%%)", est.SheetsWithSlack, est.SlackPercent))
			if est.Oversized > 0 {
				out.warning("%d item(s) are larger than the sheet", est.Oversized)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sheets, "sheet", "s", nil, "sheet WxH or inventory preset name")
	cmd.Flags().Float64Var(&slack, "slack", 15, "extra sheets in percent on top of the area bound")
	settings.register(cmd)
	return cmd
}
