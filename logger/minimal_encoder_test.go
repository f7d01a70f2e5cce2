package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/teranos/changeset/errors"
)

func encode(t *testing.T, enc zapcore.Encoder, level zapcore.Level, msg string, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(zapcore.Entry{
		Level:      level,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: "annotator",
		Message:    msg,
	}, fields)
	require.NoError(t, err)
	defer buf.Free()
	return buf.String()
}

// The console encoder must never silently discard fields
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	enc := newMinimalEncoder(everforest, false)

	out := encode(t, enc, zapcore.InfoLevel, "Moved ticket",
		zap.String("ticket", "INV-22"),
		zap.String("random_field_xyz", "important_data"),
		zap.Int("count", 3),
		zap.Bool("dry_run", false),
		zap.Strings("labels", []string{"D.4", "D.5"}),
		zap.Error(nil),
	)

	assert.Equal(t, "13:04:35  annotator  Moved ticket  ticket=INV-22 count=3 dry_run=false labels=[D.4 D.5] random_field_xyz=important_data\n", out)
}

func TestMinimalEncoderErrorFields(t *testing.T) {
	enc := newMinimalEncoder(gruvbox, false)

	out := encode(t, enc, zapcore.ErrorLevel, "Failed to add comment",
		zap.String("ticket", "INV-7"),
		zap.Error(errors.New("status 500")),
	)

	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "ticket=INV-7 error=status 500")
	assert.NotContains(t, out, "errorVerbose")
}

func TestMinimalEncoderCloneCarriesContext(t *testing.T) {
	enc := newMinimalEncoder(everforest, false)
	enc.AddString("run_id", "abc")

	clone := enc.Clone()
	clone.AddString("tag", "D.9")

	assert.Contains(t, encode(t, clone, zapcore.InfoLevel, "x"), "tag=D.9 run_id=abc")
	assert.NotContains(t, encode(t, enc, zapcore.InfoLevel, "x"), "tag=D.9")
}

func TestMinimalEncoderColor(t *testing.T) {
	enc := newMinimalEncoder(everforest, true)
	out := encode(t, enc, zapcore.WarnLevel, "careful")
	assert.Contains(t, out, colorReset)

	plain := newMinimalEncoder(everforest, false)
	assert.NotContains(t, encode(t, plain, zapcore.WarnLevel, "careful"), "\x1b[")
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, gruvbox, resolveTheme("gruvbox"))
	assert.Equal(t, everforest, resolveTheme("everforest"))
	assert.Equal(t, everforest, resolveTheme("unknown"))
}
