package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/export"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

type packOpts struct {
	sheets     []string
	outputs    []string
	labels     string
	save       string
	scale      float64
	offcutSide int
	settings   settingsFlags
}

// packCommand creates the pack command.
func (c *CLI) packCommand() *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "pack [items]",
		Short: "Pack items onto sheets and export the layout",
		Long: `Pack items onto sheets and export the layout.

The input is an item list (.csv, .tsv, .txt, .xlsx, .xlsm, .dxf) or a saved
project (.json, .toml). Sheets come from --sheet, then from the project, then
from the default sheet preset in the config.

Output formats are chosen by extension: .json atlas map, .pdf layout report,
.xlsx placement table, .png preview (numbered per sheet).`,
		Example: `  atlaspack pack sprites.csv --sheet 1024x1024 -o atlas.json -o atlas.png
  atlaspack pack panels.xlsx --sheet 2440x1220:3 --padding 4 --labels labels.pdf
  atlaspack pack project.toml --algorithm genetic --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPack(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.sheets, "sheet", "s", nil, "sheet WxH[:qty] or inventory preset name (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.outputs, "out", "o", nil, "output file: .json, .pdf, .xlsx or .png (repeatable)")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "write QR-coded placement labels to this PDF")
	cmd.Flags().StringVar(&opts.save, "save", "", "save items, sheets, settings and result as a project (.json or .toml)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "PNG preview pixels per sheet pixel")
	cmd.Flags().IntVar(&opts.offcutSide, "offcut-min", model.MinOffcutSide, "report free regions with both sides at least this size (0 disables)")
	opts.settings.register(cmd)

	return cmd
}

func (c *CLI) runPack(cmd *cobra.Command, input string, opts packOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := printer{w: cmd.OutOrStdout()}

	p, sheets, err := c.prepare(cmd, input, opts.sheets, &opts.settings)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	result := engine.New(p.Settings, engine.WithLogger(logger)).Optimize(p.Items, sheets)
	prog.done(fmt.Sprintf("Packed %d items onto %d sheet(s)", result.PlacedCount(), len(result.Sheets)))

	if err := ctx.Err(); err != nil {
		return err
	}

	printResult(out, result)
	if opts.offcutSide > 0 {
		printOffcuts(out, model.DetectAllOffcuts(result, opts.offcutSide))
	}

	for _, path := range opts.outputs {
		written, err := writeOutput(ctx, path, result, p.Settings, opts.scale)
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		for _, w := range written {
			out.file(w)
		}
	}

	if opts.labels != "" {
		if err := export.ExportLabels(opts.labels, result); err != nil {
			return fmt.Errorf("write labels %s: %w", opts.labels, err)
		}
		out.file(opts.labels)
	}

	if opts.save != "" {
		p.Sheets = sheets
		p.Result = &result
		if err := project.SaveProject(opts.save, p); err != nil {
			return fmt.Errorf("save project %s: %w", opts.save, err)
		}
		c.rememberProject(logger, opts.save)
		out.file(opts.save)
	}
	return nil
}

// prepare loads the input, applies flag overrides and resolves sheets.
func (c *CLI) prepare(cmd *cobra.Command, input string, sheetSpecs []string, flags *settingsFlags) (model.Project, []model.Sheet, error) {
	logger := loggerFromContext(cmd.Context())

	cfg, err := c.loadConfig()
	if err != nil {
		return model.Project{}, nil, err
	}
	p, err := loadInput(input, cfg, logger)
	if err != nil {
		return model.Project{}, nil, err
	}
	if isProjectFile(input) {
		c.rememberProject(logger, input)
	}
	if err := flags.apply(cmd, &p.Settings); err != nil {
		return model.Project{}, nil, err
	}
	sheets, err := c.sheetsFor(sheetSpecs, p, cfg)
	if err != nil {
		return model.Project{}, nil, err
	}
	return p, sheets, nil
}

// writeOutput exports result by file extension and returns the files written.
func writeOutput(ctx context.Context, path string, result model.PackResult, settings model.PackSettings, scale float64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return []string{path}, export.ExportJSON(path, result, settings)
	case ".pdf":
		return []string{path}, export.ExportPDF(path, result, settings)
	case ".xlsx":
		return []string{path}, export.ExportXLSX(path, result)
	case ".png":
		return export.ExportPNG(path, result, scale)
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}
}

func printResult(out printer, result model.PackResult) {
	for i, sr := range result.Sheets {
		out.success("Sheet %d %s: %d item(s), %.1f%% used", i+1, sr.Sheet.Label, len(sr.Placements), sr.Efficiency())
	}
	if len(result.Sheets) > 0 {
		out.info("Overall efficiency %.1f%%", result.TotalEfficiency())
	}
	if n := len(result.Unplaced); n > 0 {
		out.warning("%d item(s) could not be placed", n)
		for _, it := range result.Unplaced {
			out.detail("%s %dx%d", it.Label, it.Width, it.Height)
		}
	}
}

func printOffcuts(out printer, offcuts []model.Offcut) {
	if len(offcuts) == 0 {
		return
	}
	out.info("%d reusable region(s), %d px² free", len(offcuts), model.TotalOffcutArea(offcuts))
	for _, o := range offcuts {
		out.detail("sheet %d: %dx%d at (%d, %d)", o.SheetIndex+1, o.Width, o.Height, o.X, o.Y)
	}
}
