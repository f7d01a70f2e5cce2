package display

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/changeset/release"
)

func moveReport() *release.MoveTicketsReport {
	return &release.MoveTicketsReport{
		RunID:        "3f2c6d1e-0000-4000-8000-000000000000",
		Range:        release.CommitRange{Start: "1111111aaaa", End: "2222222bbbb"},
		ReleaseLabel: "D.5",
		Commits:      2,
		Tickets:      []string{"INV-10", "INV-22"},
		Outcomes: []release.Outcome{
			{Ticket: "INV-10", Action: release.ActionSkipped, Status: "Done", URL: "https://jira.example.com/browse/INV-10"},
			{
				Ticket: "INV-22", Action: release.ActionTransitioned, Status: "In Progress",
				LabelAdded: true, Commented: false,
				StepFailures: []release.StepFailure{{Step: release.StepComment, Error: "comments disabled"}},
			},
		},
		Counts: map[release.Action]int{release.ActionSkipped: 1, release.ActionTransitioned: 1},
	}
}

func TestRenderMoveTickets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMoveTickets(&buf, moveReport()))

	out := pterm.RemoveColorFromString(buf.String())
	assert.Contains(t, out, "Range 1111111..2222222  commits=2  tickets=2  label=D.5")
	assert.Contains(t, out, "INV-10")
	assert.Contains(t, out, "https://jira.example.com/browse/INV-10")
	assert.Contains(t, out, "comment failed")
	assert.Contains(t, out, "labelled")
	assert.Contains(t, out, "transitioned=1 skipped=1")
}

func TestRenderMoveTickets_Empty(t *testing.T) {
	var buf bytes.Buffer
	r := &release.MoveTicketsReport{DryRun: true, Range: release.CommitRange{Start: "a", End: "b"}}
	require.NoError(t, RenderMoveTickets(&buf, r))

	out := pterm.RemoveColorFromString(buf.String())
	assert.Contains(t, out, "[dry run]")
	assert.Contains(t, out, "No tickets referenced in range")
}

func TestRenderCreateTag(t *testing.T) {
	var buf bytes.Buffer
	r := &release.CreateTagReport{Publish: release.PublishOutcome{
		Tag: "D.43", Commit: "0123456789abcdef", Remote: "origin", Action: release.PublishPushed,
	}}
	require.NoError(t, RenderCreateTag(&buf, r))

	out := pterm.RemoveColorFromString(buf.String())
	assert.Contains(t, out, "D.43")
	assert.Contains(t, out, "0123456")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "pushed")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, moveReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "3f2c6d1e-0000-4000-8000-000000000000", decoded["run_id"])
	assert.Equal(t, "D.5", decoded["release_label"])
	assert.Equal(t, map[string]any{"skipped": float64(1), "transitioned": float64(1)}, decoded["counts"])

	outcomes := decoded["outcomes"].([]any)
	second := outcomes[1].(map[string]any)
	assert.Equal(t, "transitioned", second["action"])
	assert.Equal(t, []any{map[string]any{"step": "comment", "error": "comments disabled"}}, second["step_failures"])
}
