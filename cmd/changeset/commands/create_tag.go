package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/changeset/display"
	"github.com/teranos/changeset/release"
)

func newCreateTagCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-tag [commit]",
		Short: "Create and push the next D.<n> release tag",
		Long: `Create the next release tag on a commit (default HEAD) and push it.

The next tag is one more than the latest D.<n> tag reachable from HEAD, or
D.1 when there is none. If that tag already exists nothing is changed.

Examples:
  changeset create-tag                     # tag HEAD, push to origin
  changeset create-tag 4f2a9c1             # tag a specific commit
  changeset create-tag --origin=upstream   # push to another remote
  changeset create-tag --dry-run           # show what would happen`,
		Args: cobra.MaximumNArgs(1),
		RunE: env.runCreateTag,
	}
	cmd.Flags().String("origin", release.DefaultRemote, "Remote to push the tag to")
	cmd.Flags().Bool("dry-run", false, "Log the tag that would be created without creating it")
	return cmd
}

func (e *Env) runCreateTag(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	repo, err := e.OpenRepository(ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}
	w, err := release.NewWorkflow(repo, nil, release.WorkflowOptions{}, e.logger)
	if err != nil {
		return err
	}

	opts := release.CreateTagOptions{Remote: e.cfg.Git.Remote, DryRun: dryRun}
	if len(args) == 1 {
		opts.Commit = args[0]
	}

	report, runErr := w.CreateTag(ctx, opts)
	if report.Publish.Tag != "" {
		if err := e.writeCreateTag(cmd, report); err != nil {
			return err
		}
	}
	return runErr
}

func (e *Env) writeCreateTag(cmd *cobra.Command, report *release.CreateTagReport) error {
	if e.jsonOutput(cmd) {
		return display.WriteJSON(e.Stdout, report)
	}
	return display.RenderCreateTag(e.Stdout, report)
}
