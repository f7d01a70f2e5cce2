package release

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/tracker"
	"github.com/teranos/changeset/vcs"
)

// DefaultRemote receives pushed tags when none is given
const DefaultRemote = "origin"

// WorkflowOptions configures a Workflow
type WorkflowOptions struct {
	TicketPattern string // default DefaultTicketPattern
	Annotator     AnnotatorOptions
}

// Workflow runs the create-tag and move-tickets pipelines
type Workflow struct {
	repo      vcs.Repository
	tracker   tracker.Tracker
	extractor *Extractor
	annotator AnnotatorOptions
	logger    *zap.SugaredLogger
}

// NewWorkflow wires the pipelines. t may be nil when only CreateTag is used.
func NewWorkflow(repo vcs.Repository, t tracker.Tracker, opts WorkflowOptions, log *zap.SugaredLogger) (*Workflow, error) {
	pattern := opts.TicketPattern
	if pattern == "" {
		pattern = DefaultTicketPattern
	}
	extractor, err := NewExtractor(pattern)
	if err != nil {
		return nil, err
	}
	return &Workflow{
		repo:      repo,
		tracker:   t,
		extractor: extractor,
		annotator: opts.Annotator,
		logger:    logger.OrNop(log),
	}, nil
}

// runLogger tags every line of one run with a fresh run id
func (w *Workflow) runLogger(operation string) (string, *zap.SugaredLogger) {
	id := uuid.NewString()
	return id, w.logger.With(logger.FieldRunID, id, logger.FieldOperation, operation)
}

// CreateTagOptions are the inputs of CreateTag
type CreateTagOptions struct {
	Commit string // default HEAD
	Remote string // default DefaultRemote
	DryRun bool
}

// CreateTagReport summarizes a create-tag run
type CreateTagReport struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	DryRun     bool           `json:"dry_run"`
	Publish    PublishOutcome `json:"publish"`
}

// CreateTag computes the next release tag and publishes it at the commit.
// An existing tag is skipped without error. Create and push failures are
// returned as errors alongside the report.
func (w *Workflow) CreateTag(ctx context.Context, opts CreateTagOptions) (*CreateTagReport, error) {
	runID, log := w.runLogger("create-tag")
	report := &CreateTagReport{RunID: runID, StartedAt: time.Now(), DryRun: opts.DryRun}
	defer func() { report.FinishedAt = time.Now() }()

	ref := opts.Commit
	if ref == "" {
		ref = "HEAD"
	}
	remote := opts.Remote
	if remote == "" {
		remote = DefaultRemote
	}

	commit, err := w.repo.RevParse(ctx, ref)
	if err != nil {
		return report, errors.Wrapf(err, "failed to resolve commit %q", ref)
	}

	tag := NewSequencer(w.repo, log).NextTag(ctx)
	report.Publish = PublishOutcome{Tag: tag.String(), Commit: commit, Remote: remote}

	exists, err := w.repo.TagExists(ctx, tag.String())
	if err != nil {
		return report, errors.Wrapf(err, "failed to check for tag %s", tag)
	}
	if exists {
		log.Infow("Tag already exists. Skipping tagging.", logger.FieldTag, tag.String())
		report.Publish.Action = PublishSkipped
		return report, nil
	}

	report.Publish = NewPublisher(w.repo, log).Publish(ctx, tag, commit, remote, opts.DryRun)
	if report.Publish.Failed() {
		return report, report.Publish.Err
	}
	return report, nil
}

// MoveTicketsOptions are the inputs of MoveTickets
type MoveTicketsOptions struct {
	Start  string // default: commit of the latest release tag
	End    string // default HEAD
	DryRun bool
}

// MoveTicketsReport summarizes a move-tickets run
type MoveTicketsReport struct {
	RunID        string         `json:"run_id"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	DryRun       bool           `json:"dry_run"`
	Range        CommitRange    `json:"range"`
	ReleaseLabel string         `json:"release_label,omitempty"`
	Commits      int            `json:"commits"`
	Tickets      []string       `json:"tickets"`
	Outcomes     []Outcome      `json:"outcomes"`
	Counts       map[Action]int `json:"counts"`
}

// MoveTickets moves every ticket mentioned in the commit range to testing.
// Only range resolution errors are returned; per-ticket failures are in the
// report.
func (w *Workflow) MoveTickets(ctx context.Context, opts MoveTicketsOptions) (*MoveTicketsReport, error) {
	runID, log := w.runLogger("move-tickets")
	report := &MoveTicketsReport{
		RunID:     runID,
		StartedAt: time.Now(),
		DryRun:    opts.DryRun,
		Tickets:   []string{},
		Outcomes:  []Outcome{},
		Counts:    map[Action]int{},
	}
	defer func() { report.FinishedAt = time.Now() }()

	if w.tracker == nil {
		return report, errors.NewInvalidRequestError("no issue tracker configured")
	}

	resolver := NewRangeResolver(w.repo, log)
	cr, err := resolver.Resolve(ctx, opts.Start, opts.End)
	if err != nil {
		return report, err
	}
	report.Range = cr

	if tag, ok := resolver.TagForCommit(ctx, cr.End); ok {
		report.ReleaseLabel = tag
		log.Infow("End commit is tagged, using tag as release label", logger.FieldTag, tag)
	}

	commits, err := resolver.CommitsIn(ctx, cr)
	if err != nil {
		return report, err
	}
	report.Commits = len(commits)

	report.Tickets = w.extractor.Extract(commits)
	log.Infow("Found tickets in commit range",
		logger.FieldRange, cr.String(),
		logger.FieldCount, len(report.Tickets),
		"tickets", report.Tickets)

	annotator := NewAnnotator(w.tracker, w.annotator, log)
	report.Outcomes = annotator.Process(ctx, report.Tickets, report.ReleaseLabel, opts.DryRun)
	report.Counts = Counts(report.Outcomes)
	return report, nil
}
