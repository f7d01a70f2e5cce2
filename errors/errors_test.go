package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(New("exit status 128"), "git tag %s", "D.4")
	assert.Equal(t, "git tag D.4: exit status 128", wrapped.Error())
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", Wrap(ErrNotFound, "issue INV-1"), IsNotFoundError},
		{"unauthorized", Wrapf(ErrUnauthorized, "status %d", 401), IsUnauthorizedError},
		{"invalid request", NewInvalidRequestError("bad pattern %q", "("), IsInvalidRequestError},
		{"service unavailable", Wrap(ErrServiceUnavailable, "jira"), IsServiceUnavailableError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.False(t, tt.check(nil))
			assert.False(t, tt.check(New("unrelated")))
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("tag %s", "D.9")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "tag D.9")
}

func TestWithHint(t *testing.T) {
	err := WithHint(Wrap(ErrNoReleaseTag, "resolve start"), "pass an explicit start hash")

	assert.True(t, Is(err, ErrNoReleaseTag))
	assert.Equal(t, []string{"pass an explicit start hash"}, GetAllHints(err))
	assert.Equal(t, "pass an explicit start hash", FlattenHints(err))
}

func TestStdlibWrappingIsRecognized(t *testing.T) {
	err := fmt.Errorf("push failed: %w", ErrServiceUnavailable)
	assert.True(t, IsServiceUnavailableError(err))
}
