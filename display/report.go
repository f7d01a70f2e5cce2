package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/release"
	"github.com/teranos/changeset/vcs"
)

func colorAction(action release.Action) string {
	switch action {
	case release.ActionTransitioned:
		return pterm.Green(string(action))
	case release.ActionSimulated:
		return pterm.LightCyan(string(action))
	case release.ActionFailed:
		return pterm.Red(string(action))
	default:
		return pterm.Gray(string(action))
	}
}

func colorPublish(action release.PublishAction) string {
	switch action {
	case release.PublishPushed:
		return pterm.Green(string(action))
	case release.PublishSimulated:
		return pterm.LightCyan(string(action))
	case release.PublishCreateFailed, release.PublishPushFailed:
		return pterm.Red(string(action))
	default:
		return pterm.Gray(string(action))
	}
}

func notes(o release.Outcome) string {
	parts := []string{}
	if o.Detail != "" {
		parts = append(parts, o.Detail)
	}
	if o.LabelAdded {
		parts = append(parts, "labelled")
	}
	for _, f := range o.StepFailures {
		parts = append(parts, pterm.Red(string(f.Step)+" failed"))
	}
	return strings.Join(parts, ", ")
}

// RenderMoveTickets writes a per-ticket table and an action summary
func RenderMoveTickets(w io.Writer, r *release.MoveTicketsReport) error {
	header := fmt.Sprintf("Range %s  commits=%d  tickets=%d", r.Range, r.Commits, len(r.Tickets))
	if r.ReleaseLabel != "" {
		header += "  label=" + r.ReleaseLabel
	}
	if r.DryRun {
		header += "  " + pterm.Yellow("[dry run]")
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	if len(r.Outcomes) == 0 {
		_, err := fmt.Fprintln(w, pterm.Gray("No tickets referenced in range"))
		return err
	}

	data := pterm.TableData{{"Ticket", "Status", "Action", "Notes", "URL"}}
	for _, o := range r.Outcomes {
		data = append(data, []string{o.Ticket, o.Status, colorAction(o.Action), notes(o), o.URL})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render ticket table")
	}
	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, summary(r.Counts))
	return err
}

// summary renders counts in a stable order, e.g. "transitioned=2 skipped=1"
func summary(counts map[release.Action]int) string {
	order := map[release.Action]int{
		release.ActionTransitioned: 0,
		release.ActionSimulated:    1,
		release.ActionSkipped:      2,
		release.ActionFailed:       3,
	}
	actions := make([]release.Action, 0, len(counts))
	for a := range counts {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return order[actions[i]] < order[actions[j]] })

	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, fmt.Sprintf("%s=%d", a, counts[a]))
	}
	return strings.Join(parts, " ")
}

// RenderCreateTag writes a one-row table describing the tag outcome
func RenderCreateTag(w io.Writer, r *release.CreateTagReport) error {
	p := r.Publish
	data := pterm.TableData{
		{"Tag", "Commit", "Remote", "Action"},
		{p.Tag, vcs.ShortHash(p.Commit), p.Remote, colorPublish(p.Action)},
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render tag table")
	}
	_, err = fmt.Fprintln(w, table)
	return err
}
