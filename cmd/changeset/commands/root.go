// Package commands implements the changeset command tree.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/teranos/changeset/config"
	"github.com/teranos/changeset/display"
	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/logger"
)

// annotationNoConfig marks commands that run on defaults only, so a broken
// config file cannot stop them
const annotationNoConfig = "changeset/no-config"

// flagKeys maps config keys to the CLI flags that override them
var flagKeys = map[string]string{
	"git.repo_path": "repo",
	"git.remote":    "origin",
	"log.json":      "json",
	"jira.url":      "jira-url",
	"jira.user":     "jira-user",
	"jira.password": "jira-password",
}

// Env carries the process-wide dependencies of every command
type Env struct {
	Stdout io.Writer
	Stderr io.Writer

	// LoadOptions is the base for config loading; Flags and ConfigFile are
	// filled in from the command line
	LoadOptions config.LoadOptions

	OpenRepository RepositoryFactory
	NewTracker     TrackerFactory

	cfg     *config.Config
	logger  *zap.SugaredLogger
	verbose int
}

// DefaultEnv writes to the process streams and uses the real backends
func DefaultEnv() *Env {
	return &Env{
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		OpenRepository: OpenRepository,
		NewTracker:     NewJiraTracker,
	}
}

// NewRootCmd builds the changeset command tree over env
func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "changeset",
		Short: "Tag releases and move the tickets they ship",
		Long: `changeset automates two release steps.

create-tag computes the next D.<n> release tag for a commit and pushes it.
move-tickets finds ticket keys in a commit range and moves those tickets to
testing, labelled with the release tag.

Configuration sources (lowest to highest precedence):
  /etc/changeset/config.toml
  ~/.changeset/config.toml
  changeset.toml (nearest, walking up from --repo)
  --config file
  CHANGESET_* environment variables
  command line flags

Examples:
  changeset create-tag --dry-run
  changeset create-tag 4f2a9c1 --origin=upstream
  changeset move-tickets --jira-url=https://jira.example.com
  changeset move-tickets 1a2b3c4 5d6e7f8 --dry-run --json`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: env.preRun,
		PersistentPostRun: func(*cobra.Command, []string) { logger.Cleanup(env.logger) },
	}
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	root.PersistentFlags().String("config", "", "Config file (TOML)")
	root.PersistentFlags().String("repo", "", "Repository directory (default: current directory)")
	root.PersistentFlags().Bool("json", false, "Emit JSON reports and JSON log lines")
	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (-v shows git commands and HTTP calls)")

	root.AddCommand(
		newCreateTagCmd(env),
		newMoveTicketsCmd(env),
		newConfigCmd(env),
		newVersionCmd(env),
	)
	return root
}

// preRun loads configuration and builds the process logger
func (e *Env) preRun(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if _, skip := cmd.Annotations[annotationNoConfig]; !skip {
		loaded, err := config.Load(e.loadOptions(cmd))
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
	}
	e.cfg = cfg
	e.verbose, _ = cmd.Flags().GetCount("verbose")

	opts := logger.Options{
		JSON:      e.jsonOutput(cmd),
		Verbosity: e.verbose,
		Theme:     cfg.Log.Theme,
		Stdout:    e.Stdout,
		Stderr:    e.Stderr,
	}
	if opts.JSON {
		// stdout carries only the report
		opts.Stdout = e.Stderr
	}
	log, err := logger.New(opts)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	e.logger = log
	e.logger.Debugw("configuration loaded",
		"backend", cfg.Git.Backend,
		"repo_path", cfg.Git.RepoPath,
		"verbosity", logger.LevelName(e.verbose))
	return nil
}

func (e *Env) loadOptions(cmd *cobra.Command) config.LoadOptions {
	opts := e.LoadOptions
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		opts.ConfigFile = path
	}
	if repo, _ := cmd.Flags().GetString("repo"); repo != "" && opts.SearchDir == "" {
		opts.SearchDir = repo
	}

	opts.Flags = make(map[string]*pflag.Flag, len(flagKeys))
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			opts.Flags[key] = f
		}
	}
	return opts
}

func (e *Env) jsonOutput(cmd *cobra.Command) bool {
	if e.cfg != nil && e.cfg.Log.JSON {
		return true
	}
	return display.ShouldOutputJSON(cmd)
}

// PrintError writes err and its hints for the operator
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
