package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/vcs"
)

func commits(messages ...string) []vcs.Commit {
	out := make([]vcs.Commit, len(messages))
	for i, m := range messages {
		out[i] = vcs.Commit{Hash: string(rune('a' + i)), Message: m}
	}
	return out
}

func TestExtract_CommitRange(t *testing.T) {
	e, err := NewExtractor(DefaultTicketPattern)
	require.NoError(t, err)

	got := e.Extract(commits("fix INV-10", "also INV-10 and INV-22"))
	assert.Equal(t, []string{"INV-10", "INV-22"}, got)
}

func TestExtract_OrderAndDuplicatesDoNotMatter(t *testing.T) {
	e, err := NewExtractor(`PROJECT-\d+`)
	require.NoError(t, err)

	variants := [][]vcs.Commit{
		commits("PROJECT-7 fix"),
		commits("PROJECT-7 fix", "PROJECT-7 fix"),
		commits("unrelated", "PROJECT-7 fix"),
		commits("PROJECT-7 fix", "unrelated"),
		commits("PROJECT-7 and PROJECT-7 again"),
	}
	for _, v := range variants {
		assert.Equal(t, []string{"PROJECT-7"}, e.Extract(v))
		assert.Equal(t, e.Extract(v), e.Extract(v))
	}
}

func TestExtract_Bodies(t *testing.T) {
	e, err := NewExtractor(DefaultTicketPattern)
	require.NoError(t, err)

	got := e.Extract(commits(
		"Refactor login\n\nRefs INV-300\nSee also INV-2",
		"Merge branch 'feature/INV-15-search'",
		"chore: bump deps",
	))
	assert.Equal(t, []string{"INV-15", "INV-2", "INV-300"}, got)
}

func TestExtract_NoWordBoundary(t *testing.T) {
	e, err := NewExtractor(DefaultTicketPattern)
	require.NoError(t, err)

	assert.Equal(t, []string{"INV-5"}, e.Extract(commits("XINV-5 prefixed")))
}

func TestExtract_NoMatches(t *testing.T) {
	e, err := NewExtractor(DefaultTicketPattern)
	require.NoError(t, err)

	got := e.Extract(commits("nothing here", "inv-4 is lowercase"))
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, e.Extract(nil))
}

func TestNewExtractor_Invalid(t *testing.T) {
	_, err := NewExtractor(`INV-(\d+`)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = NewExtractor("")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}
