package release

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/changeset/errors"
	cstest "github.com/teranos/changeset/internal/testing"
)

func TestResolve_Defaults(t *testing.T) {
	repo := cstest.NewFakeRepository()
	c1 := repo.AddCommit("initial")
	tagged := repo.AddCommit("INV-1 released")
	repo.AddTag("D.4", tagged)
	repo.AddCommit("INV-2 pending")
	head := repo.AddCommit("INV-3 pending")

	cr, err := NewRangeResolver(repo, nil).Resolve(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, CommitRange{Start: tagged, End: head}, cr)
	assert.NotEqual(t, c1, cr.Start)
}

func TestResolve_ExplicitRefsArePinned(t *testing.T) {
	repo := cstest.NewFakeRepository()
	c1 := repo.AddCommit("initial")
	c2 := repo.AddCommit("second")
	repo.AddCommit("third")

	cr, err := NewRangeResolver(repo, nil).Resolve(context.Background(), c1[:7], c2[:10])
	require.NoError(t, err)
	assert.Equal(t, c1, cr.Start)
	assert.Equal(t, c2, cr.End)
}

func TestResolve_NoReleaseTag(t *testing.T) {
	repo := cstest.NewFakeRepository("initial", "second")
	repo.AddTag("v1.0.0", repo.Head())

	_, err := NewRangeResolver(repo, nil).Resolve(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoReleaseTag))
	assert.Contains(t, errors.FlattenHints(err), "explicit start hash")
}

func TestResolve_UnknownRefs(t *testing.T) {
	repo := cstest.NewFakeRepository("initial")
	resolver := NewRangeResolver(repo, nil)

	_, err := resolver.Resolve(context.Background(), "deadbeef", "")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, err.Error(), "start of range")

	_, err = resolver.Resolve(context.Background(), repo.Head(), "cafebabe")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.Contains(t, err.Error(), "end of range")
}

func TestCommitsIn(t *testing.T) {
	repo := cstest.NewFakeRepository()
	start := repo.AddCommit("initial")
	repo.AddCommit("fix INV-10")
	end := repo.AddCommit("also INV-10 and INV-22")
	repo.AddCommit("after the range INV-99")

	resolver := NewRangeResolver(repo, nil)
	got, err := resolver.CommitsIn(context.Background(), CommitRange{Start: start, End: end})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, end, got[0].Hash)
	assert.Equal(t, "fix INV-10", got[1].Message)

	repo.Errors["Log"] = errors.New("fatal: bad revision")
	_, err = resolver.CommitsIn(context.Background(), CommitRange{Start: start, End: end})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list commits")
}

func TestTagForCommit(t *testing.T) {
	repo := cstest.NewFakeRepository()
	tagged := repo.AddCommit("initial")
	repo.AddTag("D.5", tagged)
	untagged := repo.AddCommit("second")

	resolver := NewRangeResolver(repo, nil)

	tag, ok := resolver.TagForCommit(context.Background(), tagged)
	assert.True(t, ok)
	assert.Equal(t, "D.5", tag)

	tag, ok = resolver.TagForCommit(context.Background(), untagged)
	assert.False(t, ok)
	assert.Empty(t, tag)
}
