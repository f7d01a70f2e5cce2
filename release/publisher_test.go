package release

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/changeset/errors"
	cstest "github.com/teranos/changeset/internal/testing"
)

func TestPublish(t *testing.T) {
	repo := cstest.NewFakeRepository("initial")
	head := repo.Head()

	log, logs := observedLogger()
	out := NewPublisher(repo, log).Publish(context.Background(), Tag{Sequence: 3}, head, "origin", false)

	assert.Equal(t, PublishPushed, out.Action)
	assert.NoError(t, out.Err)
	assert.False(t, out.Failed())
	assert.Equal(t, []string{"tag D.3 " + head, "push origin D.3"}, repo.Mutations())
	assert.Equal(t, []string{"D.3"}, repo.Pushed("origin"))
	assert.Equal(t, 1, logs.FilterMessage("Created new tag").Len())
	assert.Equal(t, 1, logs.FilterMessage("Pushed tag").Len())
}

func TestPublish_DryRun(t *testing.T) {
	repo := cstest.NewFakeRepository("initial")

	log, logs := observedLogger()
	out := NewPublisher(repo, log).Publish(context.Background(), Tag{Sequence: 8}, repo.Head(), "origin", true)

	assert.Equal(t, PublishSimulated, out.Action)
	assert.Empty(t, repo.Mutations())
	entries := logs.FilterMessage("[Dry Run] Would create tag").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "D.8", entries[0].ContextMap()["tag"])
	assert.Equal(t, repo.Head(), entries[0].ContextMap()["commit"])
}

func TestPublish_CreateFailureSkipsPush(t *testing.T) {
	repo := cstest.NewFakeRepository("initial")
	repo.Errors["Tag"] = errors.New("fatal: cannot lock ref 'refs/tags/D.1'")

	out := NewPublisher(repo, nil).Publish(context.Background(), FirstTag, repo.Head(), "origin", false)

	assert.Equal(t, PublishCreateFailed, out.Action)
	assert.True(t, out.Failed())
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "failed to create tag D.1")
	assert.Equal(t, []string{"tag D.1 " + repo.Head()}, repo.Mutations())
}

func TestPublish_PushFailureKeepsLocalTag(t *testing.T) {
	repo := cstest.NewFakeRepository("initial")
	repo.Errors["Push"] = errors.New("fatal: could not read from remote repository")

	log, logs := observedLogger()
	out := NewPublisher(repo, log).Publish(context.Background(), FirstTag, repo.Head(), "upstream", false)

	assert.Equal(t, PublishPushFailed, out.Action)
	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "failed to push tag D.1 to upstream")
	assert.Contains(t, errors.FlattenHints(out.Err), "git push upstream D.1")

	target, ok := repo.TagTarget("D.1")
	assert.True(t, ok, "local tag is not rolled back")
	assert.Equal(t, repo.Head(), target)
	assert.Empty(t, repo.Pushed("upstream"))
	assert.Equal(t, 1, logs.FilterMessage("Failed to push tag").Len())
}
