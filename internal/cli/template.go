package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// templateCommand creates the template command for reusable projects.
func (c *CLI) templateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Save and reuse project templates",
	}
	cmd.AddCommand(c.templateListCommand())
	cmd.AddCommand(c.templateSaveCommand())
	cmd.AddCommand(c.templateApplyCommand())
	cmd.AddCommand(c.templateRemoveCommand())
	return cmd
}

func (c *CLI) loadTemplates() (model.TemplateStore, error) {
	store, err := project.LoadTemplates(c.templatePath())
	if err != nil {
		return model.TemplateStore{}, fmt.Errorf("load templates %s: %w", c.templatePath(), err)
	}
	return store, nil
}

func (c *CLI) templateListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadTemplates()
			if err != nil {
				return err
			}
			out := printer{w: cmd.OutOrStdout()}
			if len(store.Templates) == 0 {
				out.info("No templates saved")
				return nil
			}
			for _, t := range store.Templates {
				out.keyValue(t.Name, fmt.Sprintf("%d item(s), %d sheet(s)", len(t.Items), len(t.Sheets)))
				if t.Description != "" {
					out.detail("%s", t.Description)
				}
			}
			return nil
		},
	}
}

func (c *CLI) templateSaveCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "save <name> <project>",
		Short: "Save a project file as a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.LoadProject(args[1])
			if err != nil {
				return fmt.Errorf("load project %s: %w", args[1], err)
			}
			store, err := c.loadTemplates()
			if err != nil {
				return err
			}
			store.Put(model.NewProjectTemplate(args[0], description, p))
			if err := project.SaveTemplates(c.templatePath(), store); err != nil {
				return fmt.Errorf("save templates: %w", err)
			}
			printer{w: cmd.OutOrStdout()}.success("Saved template %s", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "template description")
	return cmd
}

func (c *CLI) templateApplyCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "apply <template> <project>",
		Short: "Create a new project file from a template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadTemplates()
			if err != nil {
				return err
			}
			t := store.FindByName(args[0])
			if t == nil {
				return fmt.Errorf("no template named %q", args[0])
			}
			if name == "" {
				name = t.Name
			}
			if err := project.SaveProject(args[1], t.ToProject(name)); err != nil {
				return fmt.Errorf("save project %s: %w", args[1], err)
			}
			c.rememberProject(loggerFromContext(cmd.Context()), args[1])

			out := printer{w: cmd.OutOrStdout()}
			out.success("Created project %s", name)
			out.file(args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (default: template name)")
	return cmd
}

func (c *CLI) templateRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.loadTemplates()
			if err != nil {
				return err
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("no template named %q", args[0])
			}
			if err := project.SaveTemplates(c.templatePath(), store); err != nil {
				return fmt.Errorf("save templates: %w", err)
			}
			printer{w: cmd.OutOrStdout()}.success("Removed template %s", args[0])
			return nil
		},
	}
}
