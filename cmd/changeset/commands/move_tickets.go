package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/changeset/display"
	"github.com/teranos/changeset/release"
)

func newMoveTicketsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move-tickets [start-hash] [end-hash]",
		Short: "Move tickets referenced in a commit range to testing",
		Long: `Scan the commits after start-hash up to end-hash for ticket keys and move
each ticket to testing.

start-hash defaults to the commit of the latest release tag and end-hash to
HEAD. When end-hash carries a release tag, each moved ticket is labelled with
it and gets a comment naming it. Tickets already in a skip status are left
alone. A failure on one ticket is logged and the run continues.

Examples:
  changeset move-tickets --jira-url=https://jira.example.com --jira-user=ci
  changeset move-tickets 1a2b3c4 5d6e7f8
  CHANGESET_JIRA_PASSWORD=... changeset move-tickets --dry-run`,
		Args: cobra.MaximumNArgs(2),
		RunE: env.runMoveTickets,
	}
	cmd.Flags().Bool("dry-run", false, "Log the changes that would be made without making them")
	cmd.Flags().String("jira-url", "", "Jira base URL, e.g. https://jira.example.com")
	cmd.Flags().String("jira-user", "", "Jira user for basic auth")
	cmd.Flags().String("jira-password", "", "Jira password or API token (prefer CHANGESET_JIRA_PASSWORD)")
	return cmd
}

func (e *Env) runMoveTickets(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if err := e.cfg.ValidateTracker(); err != nil {
		return err
	}

	repo, err := e.OpenRepository(ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}
	t, err := e.NewTracker(e.cfg, e.logger, e.verbose)
	if err != nil {
		return err
	}

	w, err := release.NewWorkflow(repo, t, release.WorkflowOptions{
		TicketPattern: e.cfg.Jira.TicketPattern,
		Annotator: release.AnnotatorOptions{
			TransitionName: e.cfg.Jira.TransitionName,
			SkipStatuses:   e.cfg.Jira.SkipStatuses,
		},
	}, e.logger)
	if err != nil {
		return err
	}

	opts := release.MoveTicketsOptions{DryRun: dryRun}
	if len(args) > 0 {
		opts.Start = args[0]
	}
	if len(args) > 1 {
		opts.End = args[1]
	}

	report, err := w.MoveTickets(ctx, opts)
	if err != nil {
		return err
	}
	if e.jsonOutput(cmd) {
		return display.WriteJSON(e.Stdout, report)
	}
	return display.RenderMoveTickets(e.Stdout, report)
}
