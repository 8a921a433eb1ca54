package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/importer"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// loadInput reads a project file (.json, .toml) or an item list
// (.csv, .tsv, .txt, .xlsx, .xlsm, .dxf). Item lists start from a new
// project with the configured default settings. Rows that fail to import
// are logged and skipped; an input without any item is an error.
func loadInput(path string, cfg model.AppConfig, logger *log.Logger) (model.Project, error) {
	if isProjectFile(path) {
		p, err := project.LoadProject(path)
		if err != nil {
			return model.Project{}, fmt.Errorf("load project %s: %w", path, err)
		}
		if len(p.Items) == 0 {
			return model.Project{}, fmt.Errorf("project %s has no items", path)
		}
		logger.Debug("loaded project", "name", p.Name, "items", len(p.Items), "sheets", len(p.Sheets))
		return p, nil
	}

	res := importer.ImportFile(path)
	for _, w := range res.Warnings {
		logger.Debug(w, "file", path)
	}
	for _, e := range res.Errors {
		logger.Warn(e, "file", path)
	}
	if len(res.Items) == 0 {
		return model.Project{}, fmt.Errorf("no items imported from %s", path)
	}

	p := model.NewProject()
	p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	cfg.ApplyToSettings(&p.Settings)
	p.Items = res.Items
	logger.Debug("imported items", "file", path, "items", len(p.Items), "skipped", len(res.Errors))
	return p, nil
}

// parseSheetSpec parses "WxH" or "WxH:qty", e.g. "1024x512:2". A missing
// quantity returns 0, meaning as many as needed.
func parseSheetSpec(spec string) (w, h, qty int, err error) {
	size, count, hasCount := strings.Cut(strings.TrimSpace(spec), ":")
	ws, hs, ok := strings.Cut(strings.ToLower(size), "x")
	if !ok {
		return 0, 0, 0, fmt.Errorf("sheet %q: want WxH[:qty]", spec)
	}
	if w, err = strconv.Atoi(strings.TrimSpace(ws)); err != nil || w <= 0 {
		return 0, 0, 0, fmt.Errorf("sheet %q: invalid width", spec)
	}
	if h, err = strconv.Atoi(strings.TrimSpace(hs)); err != nil || h <= 0 {
		return 0, 0, 0, fmt.Errorf("sheet %q: invalid height", spec)
	}
	if hasCount {
		if qty, err = strconv.Atoi(strings.TrimSpace(count)); err != nil || qty <= 0 {
			return 0, 0, 0, fmt.Errorf("sheet %q: invalid quantity", spec)
		}
	}
	return w, h, qty, nil
}

// unlimitedQuantity is the sheet count used when none is given: one sheet
// per item is always enough.
func unlimitedQuantity(items []model.Item) int {
	n := 0
	for _, it := range items {
		n += max(it.Quantity, 1)
	}
	return max(n, 1)
}

// resolveSheets turns --sheet values into sheets. Each value is either
// "WxH[:qty]" or the name of an inventory preset with an optional ":qty".
func resolveSheets(specs []string, inv model.Inventory, items []model.Item) ([]model.Sheet, error) {
	sheets := make([]model.Sheet, 0, len(specs))
	for _, spec := range specs {
		w, h, qty, err := parseSheetSpec(spec)
		if err == nil {
			if qty == 0 {
				qty = unlimitedQuantity(items)
			}
			sheets = append(sheets, model.NewSheet(fmt.Sprintf("%dx%d", w, h), w, h, qty))
			continue
		}

		name, count, hasCount := strings.Cut(spec, ":")
		preset := inv.FindSheetByName(strings.TrimSpace(name))
		if preset == nil {
			return nil, err
		}
		qty = unlimitedQuantity(items)
		if hasCount {
			if qty, err = strconv.Atoi(strings.TrimSpace(count)); err != nil || qty <= 0 {
				return nil, fmt.Errorf("sheet %q: invalid quantity", spec)
			}
		}
		sheets = append(sheets, preset.ToSheet(qty))
	}
	return sheets, nil
}

var errNoSheets = errors.New("no sheets: pass --sheet or set a default sheet preset")

// sheetsFor picks the sheets for a run: explicit --sheet values first, then
// the project's own sheets, then the configured default preset.
func (c *CLI) sheetsFor(specs []string, p model.Project, cfg model.AppConfig) ([]model.Sheet, error) {
	if len(specs) > 0 || len(p.Sheets) == 0 {
		inv, err := c.loadInventory()
		if err != nil {
			return nil, err
		}
		if len(specs) == 0 && cfg.DefaultSheetPreset != "" {
			specs = []string{cfg.DefaultSheetPreset}
		}
		if len(specs) == 0 {
			return nil, errNoSheets
		}
		return resolveSheets(specs, inv, p.Items)
	}
	return p.Sheets, nil
}

// settingsFlags binds the packing flags shared by pack and compare. Only
// flags the user sets override the project or config settings.
type settingsFlags struct {
	padding     int
	margin      int
	algorithm   string
	sort        string
	noRotate    bool
	seed        int64
	generations int
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	defaults := model.DefaultSettings()
	cmd.Flags().IntVar(&f.padding, "padding", defaults.Padding, "gap right of and below each item (px)")
	cmd.Flags().IntVar(&f.margin, "margin", defaults.Margin, "reserved border on each sheet edge (px)")
	cmd.Flags().StringVar(&f.algorithm, "algorithm", string(defaults.Algorithm), "packing algorithm: bsp, genetic")
	cmd.Flags().StringVar(&f.sort, "sort", string(defaults.Sort), "greedy feed order: area, max-side, height, width, none")
	cmd.Flags().BoolVar(&f.noRotate, "no-rotate", false, "never rotate items")
	cmd.Flags().Int64Var(&f.seed, "seed", defaults.Seed, "random seed for the genetic algorithm")
	cmd.Flags().IntVar(&f.generations, "generations", 0, "genetic generations (0 scales with item count)")
}

func (f *settingsFlags) apply(cmd *cobra.Command, s *model.PackSettings) error {
	flags := cmd.Flags()
	if flags.Changed("padding") {
		if f.padding < 0 {
			return fmt.Errorf("padding must not be negative")
		}
		s.Padding = f.padding
	}
	if flags.Changed("margin") {
		if f.margin < 0 {
			return fmt.Errorf("margin must not be negative")
		}
		s.Margin = f.margin
	}
	if flags.Changed("algorithm") {
		switch a := model.Algorithm(f.algorithm); a {
		case model.AlgorithmBSP, model.AlgorithmGenetic:
			s.Algorithm = a
		default:
			return fmt.Errorf("unknown algorithm %q", f.algorithm)
		}
	}
	if flags.Changed("sort") {
		key, err := parseSortKey(f.sort)
		if err != nil {
			return err
		}
		s.Sort = key
	}
	if f.noRotate {
		s.AllowRotate = false
	}
	if flags.Changed("seed") {
		s.Seed = f.seed
	}
	if flags.Changed("generations") {
		s.Generations = f.generations
	}
	return nil
}

func parseSortKey(s string) (model.SortKey, error) {
	for _, k := range model.SortKeys() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}
