package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// inventoryCommand creates the inventory command for sheet presets.
func (c *CLI) inventoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Manage saved sheet presets",
	}
	cmd.AddCommand(c.inventoryListCommand())
	cmd.AddCommand(c.inventoryAddCommand())
	cmd.AddCommand(c.inventoryRemoveCommand())
	cmd.AddCommand(c.inventoryImportCommand())
	return cmd
}

func (c *CLI) inventoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sheet presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := c.loadInventory()
			if err != nil {
				return err
			}
			out := printer{w: cmd.OutOrStdout()}
			for _, s := range inv.Sheets {
				size := fmt.Sprintf("%dx%d", s.Width, s.Height)
				if s.Group != "" {
					size += " [" + s.Group + "]"
				}
				out.keyValue(s.Name, size)
			}
			return nil
		},
	}
}

func (c *CLI) inventoryAddCommand() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "add <name> <WxH>",
		Short: "Add or replace a sheet preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, qty, err := parseSheetSpec(args[1])
			if err != nil {
				return err
			}
			if qty != 0 {
				return fmt.Errorf("presets have no quantity: %q", args[1])
			}
			inv, err := c.loadInventory()
			if err != nil {
				return err
			}

			inv.RemoveSheetByName(args[0])
			preset := model.NewSheetPreset(args[0], w, h)
			preset.Group = group
			inv.Sheets = append(inv.Sheets, preset)

			if err := project.SaveInventory(c.inventoryPath(), inv); err != nil {
				return fmt.Errorf("save inventory: %w", err)
			}
			printer{w: cmd.OutOrStdout()}.success("Saved preset %s (%dx%d)", args[0], w, h)
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only pack items of this group onto the preset")
	return cmd
}

func (c *CLI) inventoryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a sheet preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := c.loadInventory()
			if err != nil {
				return err
			}
			if !inv.RemoveSheetByName(args[0]) {
				return fmt.Errorf("no preset named %q", args[0])
			}
			if err := project.SaveInventory(c.inventoryPath(), inv); err != nil {
				return fmt.Errorf("save inventory: %w", err)
			}
			printer{w: cmd.OutOrStdout()}.success("Removed preset %s", args[0])
			return nil
		},
	}
}

func (c *CLI) inventoryImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <inventory.json>",
		Short: "Merge presets from another inventory file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := c.loadInventory()
			if err != nil {
				return err
			}
			before := len(inv.Sheets)
			merged, err := project.ImportInventory(args[0], inv)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			if err := project.SaveInventory(c.inventoryPath(), merged); err != nil {
				return fmt.Errorf("save inventory: %w", err)
			}
			printer{w: cmd.OutOrStdout()}.success("Imported %d preset(s)", len(merged.Sheets)-before)
			return nil
		},
	}
}
