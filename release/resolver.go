package release

import (
	"context"

	"go.uber.org/zap"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/vcs"
)

// CommitRange is a resolved pair of full commit hashes. Start is excluded.
type CommitRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r CommitRange) String() string {
	return vcs.ShortHash(r.Start) + ".." + vcs.ShortHash(r.End)
}

// RangeResolver turns optional start and end refs into a CommitRange
type RangeResolver struct {
	repo   vcs.Repository
	logger *zap.SugaredLogger
}

// NewRangeResolver creates a RangeResolver over repo
func NewRangeResolver(repo vcs.Repository, log *zap.SugaredLogger) *RangeResolver {
	return &RangeResolver{repo: repo, logger: logger.Component(log, "range")}
}

// Resolve pins both ends of the range to commit hashes. An empty end is HEAD.
// An empty start is the commit of the latest release tag; if there is no
// such tag the result wraps errors.ErrNoReleaseTag.
func (r *RangeResolver) Resolve(ctx context.Context, start, end string) (CommitRange, error) {
	if end == "" {
		end = "HEAD"
	}
	endHash, err := r.repo.RevParse(ctx, end)
	if err != nil {
		return CommitRange{}, errors.Wrapf(err, "failed to resolve end of range %q", end)
	}

	var startHash string
	if start == "" {
		startHash, err = r.latestTagCommit(ctx)
	} else {
		startHash, err = r.repo.RevParse(ctx, start)
		err = errors.Wrapf(err, "failed to resolve start of range %q", start)
	}
	if err != nil {
		return CommitRange{}, err
	}

	cr := CommitRange{Start: startHash, End: endHash}
	r.logger.Debugw("resolved commit range", logger.FieldRange, cr.String())
	return cr, nil
}

func (r *RangeResolver) latestTagCommit(ctx context.Context) (string, error) {
	tag, err := r.repo.Describe(ctx, TagGlob)
	if err != nil {
		cause := errors.Wrap(errors.WithSecondaryError(errors.ErrNoReleaseTag, err), "no start commit given")
		return "", errors.WithHint(cause, "pass an explicit start hash: changeset move-tickets <start-hash> [end-hash]")
	}
	hash, err := r.repo.RevList(ctx, tag)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve commit of tag %s", tag)
	}
	r.logger.Debugw("range starts at latest release tag", logger.FieldTag, tag, logger.FieldCommit, vcs.ShortHash(hash))
	return hash, nil
}

// CommitsIn lists the commits after Start up to and including End
func (r *RangeResolver) CommitsIn(ctx context.Context, cr CommitRange) ([]vcs.Commit, error) {
	commits, err := r.repo.Log(ctx, cr.Start, cr.End)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list commits in %s", cr)
	}
	r.logger.Debugw("listed commits", logger.FieldRange, cr.String(), logger.FieldCount, len(commits))
	return commits, nil
}

// TagForCommit returns the tag sitting exactly on commit, if any
func (r *RangeResolver) TagForCommit(ctx context.Context, commit string) (string, bool) {
	tag, err := r.repo.DescribeExact(ctx, commit)
	if err != nil {
		r.logger.Debugw("end commit carries no tag", logger.FieldCommit, vcs.ShortHash(commit))
		return "", false
	}
	return tag, true
}
