// Package gogit implements vcs.Repository in-process with go-git, for hosts
// where the git binary is unavailable.
package gogit

import (
	"context"
	"path"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"go.uber.org/zap"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/logger"
	"github.com/teranos/changeset/vcs"
)

// Repo is a vcs.Repository backed by a go-git repository
type Repo struct {
	repo   *git.Repository
	logger *zap.SugaredLogger
}

var _ vcs.Repository = (*Repo)(nil)

// Open opens the repository containing dir, searching parent directories
// for .git the way the git binary does.
func Open(dir string, log *zap.SugaredLogger) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open repository at %s", dir)
	}
	return New(repo, log), nil
}

// New wraps an already opened repository
func New(repo *git.Repository, log *zap.SugaredLogger) *Repo {
	return &Repo{repo: repo, logger: logger.Component(log, "git")}
}

// tagIndex maps commit hashes to the names of the tags pointing at them,
// peeling annotated tags to their target commit.
func (r *Repo) tagIndex() (map[plumbing.Hash][]string, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tags")
	}
	defer refs.Close()

	index := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash, err := r.peel(ref.Hash())
		if err != nil {
			r.logger.Debugw("skipping tag that does not point at a commit",
				logger.FieldTag, ref.Name().Short(), logger.FieldError, err)
			return nil
		}
		index[hash] = append(index[hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read tags")
	}
	return index, nil
}

// peel follows annotated tag objects until it reaches a commit
func (r *Repo) peel(hash plumbing.Hash) (plumbing.Hash, error) {
	for {
		tag, err := r.repo.TagObject(hash)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			break
		}
		if err != nil {
			return plumbing.ZeroHash, err
		}
		if tag.TargetType != plumbing.CommitObject && tag.TargetType != plumbing.TagObject {
			return plumbing.ZeroHash, errors.Newf("tag %s targets a %s", tag.Name, tag.TargetType)
		}
		hash = tag.Target
	}
	if _, err := r.repo.CommitObject(hash); err != nil {
		return plumbing.ZeroHash, err
	}
	return hash, nil
}

// pick chooses deterministically among several matching tags on one commit,
// preferring the numerically larger name (D.10 over D.9).
func pick(names []string) string {
	best := ""
	for _, name := range names {
		if best == "" || len(name) > len(best) || (len(name) == len(best) && name > best) {
			best = name
		}
	}
	return best
}

func matching(names []string, pattern string) []string {
	var out []string
	for _, name := range names {
		if ok, _ := path.Match(pattern, name); ok {
			out = append(out, name)
		}
	}
	return out
}

// Describe walks history breadth-first from HEAD and returns the nearest
// tag matching pattern
func (r *Repo) Describe(ctx context.Context, pattern string) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve HEAD")
	}
	index, err := r.tagIndex()
	if err != nil {
		return "", err
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderBSF})
	if err != nil {
		return "", errors.Wrap(err, "failed to walk history")
	}
	defer iter.Close()

	found := ""
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if names := matching(index[c.Hash], pattern); len(names) > 0 {
			found = pick(names)
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to walk history")
	}
	if found == "" {
		return "", errors.NewNotFoundError("no names found matching %s", pattern)
	}
	return found, nil
}

// DescribeExact returns a tag pointing at the commit ref resolves to
func (r *Repo) DescribeExact(ctx context.Context, ref string) (string, error) {
	hash, err := r.resolve(ref)
	if err != nil {
		return "", err
	}
	index, err := r.tagIndex()
	if err != nil {
		return "", err
	}
	names := index[hash]
	if len(names) == 0 {
		return "", errors.NewNotFoundError("no tag exactly matches %s", ref)
	}
	return pick(names), nil
}

func (r *Repo) resolve(ref string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, errors.Mark(errors.Wrapf(err, "unknown revision %q", ref), errors.ErrNotFound)
	}
	peeled, err := r.peel(*hash)
	if err != nil {
		return plumbing.ZeroHash, errors.Mark(errors.Wrapf(err, "revision %q is not a commit", ref), errors.ErrNotFound)
	}
	return peeled, nil
}

// RevParse resolves ref to the full hash of the commit it names
func (r *Repo) RevParse(ctx context.Context, ref string) (string, error) {
	hash, err := r.resolve(ref)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// TagExists reports whether refs/tags/<name> exists
func (r *Repo) TagExists(ctx context.Context, name string) (bool, error) {
	_, err := r.repo.Tag(name)
	if errors.Is(err, git.ErrTagNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to look up tag %s", name)
	}
	return true, nil
}

// RevList returns the commit a tag points at
func (r *Repo) RevList(ctx context.Context, tag string) (string, error) {
	ref, err := r.repo.Tag(tag)
	if errors.Is(err, git.ErrTagNotFound) {
		return "", errors.NewNotFoundError("tag %s not found", tag)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to look up tag %s", tag)
	}
	hash, err := r.peel(ref.Hash())
	if err != nil {
		return "", errors.Wrapf(err, "tag %s does not point at a commit", tag)
	}
	return hash.String(), nil
}

// Log returns the commits reachable from end but not from start, newest
// first. An empty start lists all of end's history.
func (r *Repo) Log(ctx context.Context, start, end string) ([]vcs.Commit, error) {
	endHash, err := r.resolve(end)
	if err != nil {
		return nil, err
	}

	excluded := make(map[plumbing.Hash]bool)
	if start != "" {
		startHash, err := r.resolve(start)
		if err != nil {
			return nil, err
		}
		if err := r.walk(ctx, startHash, func(c *object.Commit) {
			excluded[c.Hash] = true
		}); err != nil {
			return nil, err
		}
	}

	var commits []vcs.Commit
	err = r.walk(ctx, endHash, func(c *object.Commit) {
		if !excluded[c.Hash] {
			commits = append(commits, vcs.Commit{Hash: c.Hash.String(), Message: trimMessage(c.Message)})
		}
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

func (r *Repo) walk(ctx context.Context, from plumbing.Hash, fn func(*object.Commit)) error {
	iter, err := r.repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return errors.Wrapf(err, "failed to walk history from %s", vcs.ShortHash(from.String()))
	}
	defer iter.Close()

	return iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(c)
		return nil
	})
}

func trimMessage(msg string) string {
	for len(msg) > 0 && (msg[len(msg)-1] == '\n' || msg[len(msg)-1] == '\r') {
		msg = msg[:len(msg)-1]
	}
	return msg
}

// Tag creates a lightweight tag at commit
func (r *Repo) Tag(ctx context.Context, name, commit string) error {
	hash, err := r.resolve(commit)
	if err != nil {
		return err
	}
	if _, err := r.repo.CreateTag(name, hash, nil); err != nil {
		return errors.Wrapf(err, "failed to create tag %s", name)
	}
	r.logger.Debugw("created tag", logger.FieldTag, name, logger.FieldCommit, vcs.ShortHash(hash.String()))
	return nil
}

// Push publishes refs/tags/<tag> to remote. A remote that already has the
// tag is not an error.
func (r *Repo) Push(ctx context.Context, remote, tag string) error {
	ref := plumbing.NewTagReferenceName(tag)
	start := time.Now()
	err := r.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{gitconfig.RefSpec(ref.String() + ":" + ref.String())},
	})
	r.logger.Debugw("git push",
		logger.FieldRemote, remote,
		logger.FieldTag, tag,
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
		"ok", err == nil || errors.Is(err, git.NoErrAlreadyUpToDate))
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.Wrapf(err, "failed to push tag %s to %s", tag, remote)
	}
	return nil
}
