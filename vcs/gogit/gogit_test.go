package gogit

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/changeset/errors"
)

// fixture is an in-memory repository with helpers to grow a linear history
type fixture struct {
	t    *testing.T
	repo *git.Repository
	wt   *git.Worktree
	when time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &fixture{t: t, repo: repo, wt: wt, when: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *fixture) signature() *object.Signature {
	f.when = f.when.Add(time.Minute)
	return &object.Signature{Name: "Release Bot", Email: "release@example.com", When: f.when}
}

func (f *fixture) commit(msg string) string {
	f.t.Helper()
	hash, err := f.wt.Commit(msg, &git.CommitOptions{AllowEmptyCommits: true, Author: f.signature()})
	require.NoError(f.t, err)
	return hash.String()
}

func (f *fixture) lightweight(name, hash string) {
	f.t.Helper()
	_, err := f.repo.CreateTag(name, plumbing.NewHash(hash), nil)
	require.NoError(f.t, err)
}

func (f *fixture) annotated(name, hash string) {
	f.t.Helper()
	_, err := f.repo.CreateTag(name, plumbing.NewHash(hash), &git.CreateTagOptions{
		Tagger:  f.signature(),
		Message: "release " + name,
	})
	require.NoError(f.t, err)
}

func (f *fixture) backend() *Repo {
	return New(f.repo, zaptest.NewLogger(f.t).Sugar())
}

func TestDescribe(t *testing.T) {
	f := newFixture(t)
	c1 := f.commit("initial")
	f.lightweight("D.1", c1)
	c2 := f.commit("INV-1 first feature")
	f.annotated("D.2", c2)
	f.lightweight("v1.0.0", f.commit("INV-2 second feature"))
	f.commit("INV-3 unreleased")

	tag, err := f.backend().Describe(context.Background(), "D.*")
	require.NoError(t, err)
	assert.Equal(t, "D.2", tag)
}

func TestDescribe_PrefersLargerNumberOnSameCommit(t *testing.T) {
	f := newFixture(t)
	c1 := f.commit("initial")
	f.lightweight("D.9", c1)
	f.lightweight("D.10", c1)

	tag, err := f.backend().Describe(context.Background(), "D.*")
	require.NoError(t, err)
	assert.Equal(t, "D.10", tag)
}

func TestDescribe_NoMatchingTag(t *testing.T) {
	f := newFixture(t)
	f.lightweight("v1.0.0", f.commit("initial"))

	_, err := f.backend().Describe(context.Background(), "D.*")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDescribeExact(t *testing.T) {
	f := newFixture(t)
	c1 := f.commit("initial")
	f.annotated("D.4", c1)
	c2 := f.commit("untagged")

	backend := f.backend()
	tag, err := backend.DescribeExact(context.Background(), c1)
	require.NoError(t, err)
	assert.Equal(t, "D.4", tag)

	_, err = backend.DescribeExact(context.Background(), c2)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRevParse(t *testing.T) {
	f := newFixture(t)
	c1 := f.commit("initial")
	f.annotated("D.1", c1)
	c2 := f.commit("second")

	backend := f.backend()

	head, err := backend.RevParse(context.Background(), "HEAD")
	require.NoError(t, err)
	assert.Equal(t, c2, head)

	peeled, err := backend.RevParse(context.Background(), "D.1")
	require.NoError(t, err)
	assert.Equal(t, c1, peeled, "annotated tags resolve to their commit")

	_, err = backend.RevParse(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestTagExistsAndRevList(t *testing.T) {
	f := newFixture(t)
	c1 := f.commit("initial")
	f.annotated("D.3", c1)

	backend := f.backend()

	ok, err := backend.TagExists(context.Background(), "D.3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = backend.TagExists(context.Background(), "D.30")
	require.NoError(t, err)
	assert.False(t, ok)

	hash, err := backend.RevList(context.Background(), "D.3")
	require.NoError(t, err)
	assert.Equal(t, c1, hash)

	_, err = backend.RevList(context.Background(), "D.30")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestLog(t *testing.T) {
	f := newFixture(t)
	start := f.commit("initial")
	mid := f.commit("INV-10 fix login\n\nAlso touches INV-11.\n")
	end := f.commit("INV-12 tidy")

	commits, err := f.backend().Log(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	assert.Equal(t, end, commits[0].Hash)
	assert.Equal(t, "INV-12 tidy", commits[0].Message)
	assert.Equal(t, mid, commits[1].Hash)
	assert.Equal(t, "INV-10 fix login\n\nAlso touches INV-11.", commits[1].Message)
}

func TestLog_EmptyAndFullRanges(t *testing.T) {
	f := newFixture(t)
	c1 := f.commit("one")
	f.commit("two")

	backend := f.backend()

	commits, err := backend.Log(context.Background(), c1, c1)
	require.NoError(t, err)
	assert.Empty(t, commits)

	commits, err = backend.Log(context.Background(), "", "HEAD")
	require.NoError(t, err)
	assert.Len(t, commits, 2)
}

func TestLog_CancelledContext(t *testing.T) {
	f := newFixture(t)
	f.commit("one")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.backend().Log(ctx, "", "HEAD")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTag(t *testing.T) {
	f := newFixture(t)
	c1 := f.commit("initial")

	backend := f.backend()
	require.NoError(t, backend.Tag(context.Background(), "D.1", c1))

	ok, err := backend.TagExists(context.Background(), "D.1")
	require.NoError(t, err)
	assert.True(t, ok)

	err = backend.Tag(context.Background(), "D.1", c1)
	assert.Error(t, err, "existing tags are not overwritten")
}

func TestPush_UnknownRemote(t *testing.T) {
	f := newFixture(t)
	c1 := f.commit("initial")
	f.lightweight("D.1", c1)

	err := f.backend().Push(context.Background(), "origin", "D.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, git.ErrRemoteNotFound)
	assert.Contains(t, err.Error(), "failed to push tag D.1 to origin")
}
