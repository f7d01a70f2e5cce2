package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/changeset/config"
	"github.com/teranos/changeset/display"
	"github.com/teranos/changeset/errors"
)

func newConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create changeset configuration",
		Long: `Show the effective configuration or write a starter changeset.toml.

Examples:
  changeset config show                # effective config as TOML
  changeset config show --format yaml
  changeset config init                # write ./changeset.toml
  changeset config init ~/.changeset/config.toml --force`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration, credentials redacted",
		Args:  cobra.NoArgs,
		RunE:  env.runConfigShow,
	}
	show.Flags().String("format", "toml", "Output format: toml, json, yaml")

	initCmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write a default config file (default: ./" + config.ProjectConfigName + ")",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{annotationNoConfig: "true"},
		RunE:        env.runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func (e *Env) runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg := e.cfg.Redacted()

	format, _ := cmd.Flags().GetString("format")
	if e.jsonOutput(cmd) {
		format = "json"
	}

	switch format {
	case "json":
		return display.WriteJSON(e.Stdout, cfg)
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(e.Stdout, "# changeset configuration\n%s", data)
	case "toml":
		data, err := config.Marshal(&cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.Stdout, "# changeset configuration\n%s", data)
	default:
		return errors.WithHint(
			errors.NewInvalidRequestError("unsupported format %q", format),
			"use --format toml, json or yaml")
	}
	return nil
}

func (e *Env) runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ProjectConfigName
	if repo, _ := cmd.Flags().GetString("repo"); repo != "" {
		path = filepath.Join(repo, config.ProjectConfigName)
	}
	if len(args) == 1 {
		path = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	if err := config.WriteFile(path, config.Default(), force); err != nil {
		return err
	}
	e.logger.Infow("Wrote config file", "path", path)
	return nil
}
