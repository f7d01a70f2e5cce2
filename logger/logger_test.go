package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_ConsoleSplitsStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	log, err := New(Options{Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	log.Infow("Tag already exists, skipping", FieldTag, "D.42")
	log.Errorw("Failed to push tag", FieldTag, "D.43", FieldRemote, "origin")
	log.Debugw("hidden at default verbosity")

	assert.Contains(t, stdout.String(), "Tag already exists, skipping")
	assert.Contains(t, stdout.String(), "tag=D.42")
	assert.NotContains(t, stdout.String(), "Failed to push tag")
	assert.NotContains(t, stdout.String(), "hidden at default verbosity")

	assert.Contains(t, stderr.String(), "ERROR")
	assert.Contains(t, stderr.String(), "tag=D.43 remote=origin")
	assert.NotContains(t, stderr.String(), "skipping")
}

func TestNew_VerbosityEnablesDebug(t *testing.T) {
	var stdout bytes.Buffer
	log, err := New(Options{Stdout: &stdout, Stderr: &bytes.Buffer{}, Verbosity: VerbosityDebug})
	require.NoError(t, err)

	log.Debugw("git invocation", FieldCommand, "git rev-parse HEAD")
	assert.Contains(t, stdout.String(), "DEBUG")
	assert.Contains(t, stdout.String(), "command=git rev-parse HEAD")
}

func TestNew_JSON(t *testing.T) {
	var stdout bytes.Buffer
	log, err := New(Options{JSON: true, Stdout: &stdout, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)

	log.Named("annotator").Infow("Moved ticket", FieldTicket, "INV-22", FieldTag, "D.5")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &entry))
	assert.Equal(t, "Moved ticket", entry["msg"])
	assert.Equal(t, "annotator", entry["logger"])
	assert.Equal(t, "INV-22", entry[FieldTicket])
	assert.Equal(t, "D.5", entry[FieldTag])
}

func TestComponent_KeepsContextFields(t *testing.T) {
	var stdout bytes.Buffer
	log, err := New(Options{Stdout: &stdout, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)

	child := Component(log.With(FieldRunID, "run-1"), "publisher")
	child.Infow("Created tag", FieldTag, "D.1", FieldCommit, "abc123")

	line := stdout.String()
	assert.Contains(t, line, "publisher")
	assert.Contains(t, line, "run_id=run-1")
	// leading keys come before the trailing run id
	assert.Less(t, strings.Index(line, "tag=D.1"), strings.Index(line, "run_id=run-1"))
	assert.Less(t, strings.Index(line, "tag=D.1"), strings.Index(line, "commit=abc123"))
}

func TestComponent_NilParent(t *testing.T) {
	assert.NotPanics(t, func() {
		Component(nil, "x").Infow("dropped")
	})
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(0))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(1))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(5))
	assert.True(t, ShouldLogTrace(2))
	assert.False(t, ShouldLogTrace(1))
	assert.Equal(t, "Debug (-v)", LevelName(1))
}
