package release

import (
	"context"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/vcs"
)

// Publisher creates release tags and pushes them to a remote
type Publisher struct {
	repo   vcs.Repository
	logger *zap.SugaredLogger
}

// NewPublisher creates a Publisher over repo
func NewPublisher(repo vcs.Repository, log *zap.SugaredLogger) *Publisher {
	return &Publisher{repo: repo, logger: logger.Component(log, "publisher")}
}

// Publish tags commit and pushes the tag to remote. A push failure leaves
// the local tag in place; the error hint carries the manual push command.
func (p *Publisher) Publish(ctx context.Context, tag Tag, commit, remote string, dryRun bool) PublishOutcome {
	name := tag.String()
	out := PublishOutcome{Tag: name, Commit: commit, Remote: remote}
	log := p.logger.With(logger.FieldTag, name, logger.FieldCommit, commit)

	if dryRun {
		log.Infow("[Dry Run] Would create tag", logger.FieldRemote, remote)
		out.Action = PublishSimulated
		return out
	}

	if err := p.repo.Tag(ctx, name, commit); err != nil {
		out.Action = PublishCreateFailed
		out.Err = errors.Wrapf(err, "failed to create tag %s", name)
		log.Errorw("Failed to create tag", logger.FieldError, err)
		return out
	}
	log.Infow("Created new tag")

	if err := p.repo.Push(ctx, remote, name); err != nil {
		out.Action = PublishPushFailed
		out.Err = errors.WithHintf(
			errors.Wrapf(err, "failed to push tag %s to %s", name, remote),
			"the tag exists locally; push it by hand with: %s",
			shellquote.Join("git", "push", remote, name))
		log.Errorw("Failed to push tag", logger.FieldRemote, remote, logger.FieldError, err)
		return out
	}
	log.Infow("Pushed tag", logger.FieldRemote, remote)
	out.Action = PublishPushed
	return out
}
