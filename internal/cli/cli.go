package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

const appName = "atlaspack"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version.
// main calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configDir overrides ~/.atlaspack when set.
	configDir string
	verbose   bool
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "atlaspack packs rectangles onto fixed-size sheets",
		Long: `atlaspack packs rectangles (sprites, glyphs, lightmap charts, panels)
onto one or more fixed-size sheets using a binary space partitioning packer
or a genetic search over insertion orders, and exports the layout as a JSON
atlas map, PDF report, spreadsheet or PNG preview.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.applyLogLevel()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configDir, "config-dir", "", "directory holding config, inventory and templates (default ~/.atlaspack)")

	root.AddCommand(c.packCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.estimateCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.inventoryCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.backupCommand())

	return root
}

// applyLogLevel uses --verbose if given, otherwise the configured level.
func (c *CLI) applyLogLevel() {
	if c.verbose {
		c.SetLogLevel(log.DebugLevel)
		return
	}
	cfg, err := project.LoadAppConfig(c.configPath())
	if err != nil {
		return
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		c.SetLogLevel(level)
	}
}

func (c *CLI) configPath() string {
	if c.configDir == "" {
		return project.DefaultConfigPath()
	}
	return filepath.Join(c.configDir, "config.json")
}

func (c *CLI) inventoryPath() string {
	if c.configDir == "" {
		return project.DefaultInventoryPath()
	}
	return filepath.Join(c.configDir, "inventory.json")
}

func (c *CLI) templatePath() string {
	if c.configDir == "" {
		return project.DefaultTemplatePath()
	}
	return filepath.Join(c.configDir, "templates.json")
}

func (c *CLI) loadConfig() (model.AppConfig, error) {
	cfg, err := project.LoadAppConfig(c.configPath())
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("load config %s: %w", c.configPath(), err)
	}
	return cfg, nil
}

func (c *CLI) loadInventory() (model.Inventory, error) {
	inv, err := project.LoadInventory(c.inventoryPath())
	if err != nil {
		return model.Inventory{}, fmt.Errorf("load inventory %s: %w", c.inventoryPath(), err)
	}
	return inv, nil
}

// rememberProject records path in the config's recent projects list.
// Failures only log; they never fail the command.
func (c *CLI) rememberProject(logger *log.Logger, path string) {
	cfg, err := c.loadConfig()
	if err != nil {
		logger.Debug("skip recent projects", "err", err)
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	cfg.AddRecentProject(abs)
	if err := project.SaveAppConfig(c.configPath(), cfg); err != nil {
		logger.Debug("save recent projects", "err", err)
	}
}

func isProjectFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".toml":
		return true
	}
	return false
}
