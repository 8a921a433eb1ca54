package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/export"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
	"github.com/piwi3910/atlaspack/internal/verify"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <atlas.json|project>",
		Short: "Check a saved layout for overlaps and out-of-bounds placements",
		Long: `Check a saved layout for overlaps and out-of-bounds placements.

Accepts an atlas map written by 'pack -o file.json' or a project saved with
'pack --save'. Projects are also checked against their item quantities.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := printer{w: cmd.OutOrStdout()}

			result, settings, items, err := loadLayout(args[0])
			if err != nil {
				return err
			}

			issues := verify.Check(result, settings, items)
			if len(issues) == 0 {
				out.success("%d placement(s) on %d sheet(s) are valid", result.PlacedCount(), len(result.Sheets))
				return nil
			}
			for _, line := range verify.FormatIssues(issues) {
				out.warning("%s", line)
			}
			return fmt.Errorf("%d layout issue(s) found", len(issues))
		},
	}
}

// loadLayout reads an atlas map or a project with a stored result.
func loadLayout(path string) (model.PackResult, model.PackSettings, []model.Item, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		m, err := export.LoadAtlasMap(path)
		if err == nil {
			return m.Result(), m.Settings(), nil, nil
		}
		if !errors.Is(err, export.ErrNotAtlasMap) {
			return model.PackResult{}, model.PackSettings{}, nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	p, err := project.LoadProject(path)
	if err != nil {
		return model.PackResult{}, model.PackSettings{}, nil, fmt.Errorf("load project %s: %w", path, err)
	}
	if p.Result == nil {
		return model.PackResult{}, model.PackSettings{}, nil, fmt.Errorf("project %s has no packing result", path)
	}
	return *p.Result, p.Settings, p.Items, nil
}
