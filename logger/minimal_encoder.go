package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the ANSI codes for one console theme
type palette struct {
	time      string
	component string
	fg        string
	key       string
	id        string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	time:      "\x1b[38;5;108m",
	component: "\x1b[38;5;208m",
	fg:        "\x1b[38;5;223m",
	key:       "\x1b[38;5;245m",
	id:        "\x1b[38;5;109m",
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	time:      "\x1b[38;5;107m",
	component: "\x1b[38;5;108m",
	fg:        "\x1b[38;5;223m",
	key:       "\x1b[38;5;65m",
	id:        "\x1b[38;5;109m",
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// DefaultTheme is used when no theme (or an unknown one) is configured
const DefaultTheme = "everforest"

func resolveTheme(name string) palette {
	if name == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// leadingKeys are printed first, in this order, when present
var leadingKeys = []string{FieldTicket, FieldTag, FieldCommit, FieldStatus, FieldLabel, FieldRemote, FieldAction}

// trailingKeys are printed last, in this order, when present
var trailingKeys = []string{FieldURL, FieldError, FieldHint, FieldRunID}

// idKeys get the id color
var idKeys = map[string]bool{FieldTicket: true, FieldTag: true, FieldCommit: true}

var bufferPool = buffer.NewPool()

// minimalEncoder implements a calm, compact console encoder
// Format: "13:04:35  annotator  Moved ticket to test  ticket=INV-22 tag=D.5"
//
// Context fields added through With() are accumulated in the embedded map
// encoder and rendered together with the per-entry fields.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
	theme palette
	color bool
}

func newMinimalEncoder(theme palette, color bool) *minimalEncoder {
	return &minimalEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		theme:            theme,
		color:            color,
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := newMinimalEncoder(enc.theme, enc.color)
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	merged := zapcore.NewMapObjectEncoder()
	for k, v := range enc.Fields {
		merged.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(merged)
	}

	final := bufferPool.Get()

	final.AppendString(enc.paint(enc.theme.time, ent.Time.Format("15:04:05")))

	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(enc.levelString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(enc.paint(enc.theme.component, ent.LoggerName))
	}

	final.AppendString("  ")
	final.AppendString(enc.paint(enc.theme.fg, ent.Message))

	if kv := enc.formatFields(merged.Fields); kv != "" {
		final.AppendString("  ")
		final.AppendString(kv)
	}

	final.AppendString("\n")
	return final, nil
}

func (enc *minimalEncoder) paint(code, s string) string {
	if !enc.color || code == "" {
		return s
	}
	return code + s + colorReset
}

// levelString renders DEBUG plain and WARN/ERROR bold with background
func (enc *minimalEncoder) levelString(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return enc.paint(enc.theme.key, "DEBUG")
	case zapcore.WarnLevel:
		return enc.paint(colorBold+enc.theme.warnBg+enc.theme.warn, "WARN")
	default:
		return enc.paint(colorBold+enc.theme.errBg+enc.theme.err, level.CapitalString())
	}
}

// formatFields renders every field as key=value. Nothing is dropped except
// the *Verbose stack dumps zap adds next to error fields.
func (enc *minimalEncoder) formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	seen := make(map[string]bool, len(fields))
	var ordered []string
	for _, k := range leadingKeys {
		if _, ok := fields[k]; ok {
			ordered = append(ordered, k)
			seen[k] = true
		}
	}
	for _, k := range trailingKeys {
		seen[k] = true
	}

	var middle []string
	for k := range fields {
		if seen[k] || strings.HasSuffix(k, "Verbose") {
			continue
		}
		middle = append(middle, k)
	}
	sort.Strings(middle)
	ordered = append(ordered, middle...)

	for _, k := range trailingKeys {
		if _, ok := fields[k]; ok {
			ordered = append(ordered, k)
		}
	}

	parts := make([]string, 0, len(ordered))
	for _, k := range ordered {
		val := fmt.Sprintf("%v", fields[k])
		switch {
		case k == FieldError:
			val = enc.paint(enc.theme.err, val)
		case idKeys[k]:
			val = enc.paint(enc.theme.id, val)
		}
		parts = append(parts, enc.paint(enc.theme.key, k+"=")+val)
	}
	return strings.Join(parts, " ")
}
