package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/project"
)

// backupCommand creates the backup command.
func (c *CLI) backupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore config and inventory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export <file>",
		Short: "Write config and inventory to one JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			inv, err := c.loadInventory()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], cfg, inv); err != nil {
				return err
			}
			out := printer{w: cmd.OutOrStdout()}
			out.success("Exported config and %d preset(s)", len(inv.Sheets))
			out.file(args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Replace config and inventory from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveAppConfig(c.configPath(), data.Config); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			if err := project.SaveInventory(c.inventoryPath(), data.Inventory); err != nil {
				return fmt.Errorf("write inventory: %w", err)
			}
			printer{w: cmd.OutOrStdout()}.success("Restored backup from %s (version %s)", data.CreatedAt, data.Version)
			return nil
		},
	})
	return cmd
}
