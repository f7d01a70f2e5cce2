package testing

import (
	"context"
	"strings"
	"sync"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/tracker"
)

// Call is one recorded tracker invocation
type Call struct {
	Method string
	Key    string
	Arg    string
}

// FakeTracker holds issues in memory and records every call
type FakeTracker struct {
	mu       sync.Mutex
	issues   map[string]*tracker.Issue
	comments map[string][]string
	calls    []Call
	baseURL  string

	// Errors injects failures by "Method" or "Method:KEY", e.g. "Transition:INV-3"
	Errors map[string]error
}

// NewFakeTracker returns an empty tracker whose browse links use baseURL
func NewFakeTracker(baseURL string) *FakeTracker {
	return &FakeTracker{
		issues:   make(map[string]*tracker.Issue),
		comments: make(map[string][]string),
		baseURL:  baseURL,
		Errors:   make(map[string]error),
	}
}

// AddIssue registers an issue with a status and labels
func (f *FakeTracker) AddIssue(key, status string, labels ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues[key] = &tracker.Issue{Key: key, Status: status, Labels: append([]string(nil), labels...)}
}

// Issue returns a copy of the stored issue
func (f *FakeTracker) Issue(key string) (tracker.Issue, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[key]
	if !ok {
		return tracker.Issue{}, false
	}
	return copyIssue(issue), true
}

// Comments returns the comments added to key
func (f *FakeTracker) Comments(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.comments[key]...)
}

// Calls returns every recorded call
func (f *FakeTracker) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Mutations returns the Transition, UpdateLabels and AddComment calls
func (f *FakeTracker) Mutations() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if c.Method != "GetIssue" {
			out = append(out, c)
		}
	}
	return out
}

// CallsTo counts calls to method
func (f *FakeTracker) CallsTo(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeTracker) record(method, key, arg string) error {
	f.calls = append(f.calls, Call{Method: method, Key: key, Arg: arg})
	if err := f.Errors[method+":"+key]; err != nil {
		return err
	}
	return f.Errors[method]
}

func copyIssue(issue *tracker.Issue) tracker.Issue {
	out := *issue
	out.Labels = append([]string(nil), issue.Labels...)
	return out
}

// GetIssue returns a copy of the stored issue
func (f *FakeTracker) GetIssue(ctx context.Context, key string) (*tracker.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetIssue", key, ""); err != nil {
		return nil, err
	}
	issue, ok := f.issues[key]
	if !ok {
		return nil, errors.NewNotFoundError("issue %s does not exist", key)
	}
	out := copyIssue(issue)
	return &out, nil
}

// Transition moves the issue to a status named after the transition
func (f *FakeTracker) Transition(ctx context.Context, key, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("Transition", key, name); err != nil {
		return err
	}
	issue, ok := f.issues[key]
	if !ok {
		return errors.NewNotFoundError("issue %s does not exist", key)
	}
	issue.Status = name
	return nil
}

// UpdateLabels replaces the label set
func (f *FakeTracker) UpdateLabels(ctx context.Context, key string, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateLabels", key, strings.Join(labels, ",")); err != nil {
		return err
	}
	issue, ok := f.issues[key]
	if !ok {
		return errors.NewNotFoundError("issue %s does not exist", key)
	}
	issue.Labels = append([]string(nil), labels...)
	return nil
}

// AddComment appends body to the issue's comments
func (f *FakeTracker) AddComment(ctx context.Context, key, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("AddComment", key, body); err != nil {
		return err
	}
	if _, ok := f.issues[key]; !ok {
		return errors.NewNotFoundError("issue %s does not exist", key)
	}
	f.comments[key] = append(f.comments[key], body)
	return nil
}

// IssueURL returns the browse link for key
func (f *FakeTracker) IssueURL(key string) string {
	return f.baseURL + "/browse/" + key
}

var (
	_ tracker.Tracker = (*FakeTracker)(nil)
	_ tracker.URLer   = (*FakeTracker)(nil)
)
