// Package tracker defines the issue-tracker capability the release workflow
// consumes. The Jira REST backend lives in tracker/jira.
package tracker

import "context"

// Issue is the tracker-owned state of a ticket
type Issue struct {
	Key    string   `json:"key"`
	Status string   `json:"status"`
	Labels []string `json:"labels"`
}

// HasLabel reports whether the issue carries label (exact match)
func (i *Issue) HasLabel(label string) bool {
	for _, l := range i.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Tracker is the set of issue operations used by changeset.
//
// GetIssue returns an error wrapping errors.ErrNotFound for unknown keys and
// errors.ErrUnauthorized when credentials are rejected.
type Tracker interface {
	GetIssue(ctx context.Context, key string) (*Issue, error)

	// Transition moves the issue through the workflow transition called name.
	Transition(ctx context.Context, key, name string) error

	// UpdateLabels replaces the issue's label set.
	UpdateLabels(ctx context.Context, key string, labels []string) error

	AddComment(ctx context.Context, key, body string) error
}

// URLer is implemented by trackers that can link to an issue in a browser
type URLer interface {
	IssueURL(key string) string
}
