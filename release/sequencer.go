package release

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/vcs"
)

// Sequencer derives the next release tag from the repository's tag history
type Sequencer struct {
	repo   vcs.Repository
	logger *zap.SugaredLogger
}

// NewSequencer creates a Sequencer over repo
func NewSequencer(repo vcs.Repository, log *zap.SugaredLogger) *Sequencer {
	return &Sequencer{repo: repo, logger: logger.Component(log, "sequencer")}
}

// Latest returns the most recent release tag reachable from HEAD. ok is
// false when there is none, when the lookup fails or when the tag name is
// malformed.
func (s *Sequencer) Latest(ctx context.Context) (Tag, bool) {
	name, err := s.repo.Describe(ctx, TagGlob)
	if err != nil {
		s.logger.Debugw("no release tag found", logger.FieldError, err)
		return Tag{}, false
	}
	tag, err := ParseTag(name)
	if err != nil {
		s.logger.Debugw("ignoring malformed release tag", logger.FieldTag, name, logger.FieldError, err)
		return Tag{}, false
	}
	return tag, true
}

// NextTag returns the tag after the latest one, or FirstTag
func (s *Sequencer) NextTag(ctx context.Context) Tag {
	latest, ok := s.Latest(ctx)
	if !ok {
		return FirstTag
	}
	next, err := latest.Next()
	if err != nil {
		s.logger.Debugw("tag sequence exhausted, restarting", logger.FieldTag, latest.String(), logger.FieldError, err)
		return FirstTag
	}
	s.logger.Debugw("computed next tag", logger.FieldTag, next.String(), "previous", latest.String())
	return next
}

// TagExists reports whether name already exists
func (s *Sequencer) TagExists(ctx context.Context, name string) (bool, error) {
	return s.repo.TagExists(ctx, name)
}
