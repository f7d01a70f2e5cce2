package release

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/tracker"
)

// DefaultTransitionName is the Jira transition that moves a ticket to testing
const DefaultTransitionName = "TO TEST"

// DefaultSkipStatuses are statuses a ticket is never moved out of
var DefaultSkipStatuses = []string{"To Test", "Done", "Closed"}

// AnnotatorOptions configures an Annotator
type AnnotatorOptions struct {
	TransitionName string   // default DefaultTransitionName
	SkipStatuses   []string // nil = DefaultSkipStatuses; matched exactly
}

// Annotator moves tickets to testing, labels them with the release tag and
// leaves a comment
type Annotator struct {
	tracker        tracker.Tracker
	transitionName string
	skip           map[string]bool
	logger         *zap.SugaredLogger
}

// NewAnnotator creates an Annotator over t
func NewAnnotator(t tracker.Tracker, opts AnnotatorOptions, log *zap.SugaredLogger) *Annotator {
	name := opts.TransitionName
	if name == "" {
		name = DefaultTransitionName
	}
	statuses := opts.SkipStatuses
	if statuses == nil {
		statuses = DefaultSkipStatuses
	}
	skip := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		skip[s] = true
	}
	return &Annotator{
		tracker:        t,
		transitionName: name,
		skip:           skip,
		logger:         logger.Component(log, "annotator"),
	}
}

// ShouldSkip reports whether a ticket in status is left alone
func (a *Annotator) ShouldSkip(status string) bool {
	return a.skip[status]
}

// CommentBody renders the comment left on a moved ticket
func CommentBody(releaseLabel string) string {
	var b strings.Builder
	b.WriteString("This issue has been moved to the \"To Test\" status by an automated deployment tool.\n\n")
	if releaseLabel != "" {
		b.WriteString("Release tag: " + releaseLabel + "\n\n")
	}
	b.WriteString("Please review the changes and proceed with the testing phase.")
	return b.String()
}

// Process handles each ticket independently and returns one outcome per
// ticket. A failure on one ticket never stops the others.
func (a *Annotator) Process(ctx context.Context, tickets []string, releaseLabel string, dryRun bool) []Outcome {
	outcomes := make([]Outcome, 0, len(tickets))
	for _, key := range tickets {
		outcomes = append(outcomes, a.processOne(ctx, key, releaseLabel, dryRun))
	}
	return outcomes
}

func (a *Annotator) issueURL(key string) string {
	if u, ok := a.tracker.(tracker.URLer); ok {
		return u.IssueURL(key)
	}
	return ""
}

func (a *Annotator) processOne(ctx context.Context, key, releaseLabel string, dryRun bool) Outcome {
	out := Outcome{Ticket: key, URL: a.issueURL(key)}
	log := a.logger.With(logger.FieldTicket, key)
	if out.URL != "" {
		log = log.With(logger.FieldURL, out.URL)
	}

	issue, err := a.tracker.GetIssue(ctx, key)
	if err != nil {
		log.Errorw("Failed to fetch ticket", logger.FieldError, err)
		out.Action = ActionFailed
		out.Detail = "fetch failed"
		out.StepFailures = append(out.StepFailures, StepFailure{Step: StepFetch, Error: err.Error()})
		return out
	}
	out.Status = issue.Status
	log = log.With(logger.FieldStatus, issue.Status)

	if a.ShouldSkip(issue.Status) {
		log.Infow("Skipping ticket")
		out.Action = ActionSkipped
		out.Detail = "status " + issue.Status + " is not moved"
		return out
	}

	if dryRun {
		log.Infow("[Dry Run] Would move ticket", "transition", a.transitionName)
		if releaseLabel != "" {
			log.Infow("[Dry Run] Would add release tag as label", logger.FieldLabel, releaseLabel)
		}
		out.Action = ActionSimulated
		out.Detail = "would transition via " + a.transitionName
		return out
	}

	if err := a.tracker.Transition(ctx, key, a.transitionName); err != nil {
		log.Errorw("Failed to move ticket", "transition", a.transitionName, logger.FieldError, err)
		out.Action = ActionFailed
		out.Detail = "transition failed"
		out.StepFailures = append(out.StepFailures, StepFailure{Step: StepTransition, Error: err.Error()})
		return out
	}
	out.Action = ActionTransitioned

	if releaseLabel != "" {
		added, err := a.addLabel(ctx, key, releaseLabel)
		if err != nil {
			log.Errorw("Failed to add label", logger.FieldLabel, releaseLabel, logger.FieldError, err)
			out.StepFailures = append(out.StepFailures, StepFailure{Step: StepLabel, Error: err.Error()})
		} else if added {
			log.Infow("Added release tag as label", logger.FieldLabel, releaseLabel)
			out.LabelAdded = true
		}
	}

	if err := a.tracker.AddComment(ctx, key, CommentBody(releaseLabel)); err != nil {
		log.Errorw("Failed to add comment", logger.FieldError, err)
		out.StepFailures = append(out.StepFailures, StepFailure{Step: StepComment, Error: err.Error()})
	} else {
		out.Commented = true
	}

	log.Infow("Moved ticket to To Test")
	out.Detail = "moved via " + a.transitionName
	return out
}

// addLabel re-fetches the labels and appends label unless already present.
// It reports whether a write was made.
func (a *Annotator) addLabel(ctx context.Context, key, label string) (bool, error) {
	issue, err := a.tracker.GetIssue(ctx, key)
	if err != nil {
		return false, err
	}
	if issue.HasLabel(label) {
		return false, nil
	}
	labels := append(append([]string(nil), issue.Labels...), label)
	if err := a.tracker.UpdateLabels(ctx, key, labels); err != nil {
		return false, err
	}
	return true, nil
}
