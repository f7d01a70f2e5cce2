// Package testing provides in-memory fakes of the vcs and tracker
// capabilities. Both fakes record every mutating call so tests can assert
// that dry runs and idempotent paths change nothing.
package testing

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/vcs"
)

// FakeRepository is a linear commit history with tags, held in memory
type FakeRepository struct {
	mu      sync.Mutex
	commits []vcs.Commit // oldest first; the last one is HEAD
	side    []vcs.Commit // commits on other branches, not reachable from HEAD
	tags    map[string]string
	pushed  map[string][]string
	calls   []string

	// Errors injects failures by method name, e.g. "Push" or "Describe"
	Errors map[string]error
}

// NewFakeRepository builds a history with one commit per message
func NewFakeRepository(messages ...string) *FakeRepository {
	r := &FakeRepository{
		tags:   make(map[string]string),
		pushed: make(map[string][]string),
		Errors: make(map[string]error),
	}
	for _, msg := range messages {
		r.AddCommit(msg)
	}
	return r
}

// AddCommit appends a commit on top of HEAD and returns its hash
func (r *FakeRepository) AddCommit(message string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := sha1.Sum([]byte(fmt.Sprintf("%d\x00%s", len(r.commits), message)))
	hash := hex.EncodeToString(sum[:])
	r.commits = append(r.commits, vcs.Commit{Hash: hash, Message: message})
	return hash
}

// AddSideCommit records a commit on another branch and returns its hash
func (r *FakeRepository) AddSideCommit(message string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := sha1.Sum([]byte("side\x00" + message))
	hash := hex.EncodeToString(sum[:])
	r.side = append(r.side, vcs.Commit{Hash: hash, Message: message})
	return hash
}

// AddTag points name at commit without recording a mutation
func (r *FakeRepository) AddTag(name, commit string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tags[name] = commit
}

// Head returns the hash of the newest commit, or "" for an empty history
func (r *FakeRepository) Head() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.commits) == 0 {
		return ""
	}
	return r.commits[len(r.commits)-1].Hash
}

// TagTarget returns the commit a tag points at
func (r *FakeRepository) TagTarget(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	hash, ok := r.tags[name]
	return hash, ok
}

// Pushed returns the tags pushed to remote, in push order
func (r *FakeRepository) Pushed(remote string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.pushed[remote]...)
}

// Mutations returns every Tag and Push call, e.g. "tag D.1 <hash>"
func (r *FakeRepository) Mutations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *FakeRepository) injected(method string) error {
	return r.Errors[method]
}

// indexOf returns the history position of hash, or -1
func (r *FakeRepository) indexOf(hash string) int {
	for i, c := range r.commits {
		if c.Hash == hash {
			return i
		}
	}
	return -1
}

// resolve maps HEAD, tag names and (abbreviated) hashes to a full hash,
// including commits that are not reachable from HEAD
func (r *FakeRepository) resolve(ref string) (string, error) {
	if ref == "HEAD" {
		if len(r.commits) == 0 {
			return "", errors.NewNotFoundError("HEAD does not point at a commit")
		}
		return r.commits[len(r.commits)-1].Hash, nil
	}
	if hash, ok := r.tags[ref]; ok {
		return hash, nil
	}
	if len(ref) >= 4 {
		for _, c := range append(append([]vcs.Commit(nil), r.commits...), r.side...) {
			if strings.HasPrefix(c.Hash, ref) {
				return c.Hash, nil
			}
		}
	}
	return "", errors.NewNotFoundError("unknown revision %q", ref)
}

// position resolves ref to its index in the HEAD history
func (r *FakeRepository) position(ref string) (int, error) {
	hash, err := r.resolve(ref)
	if err != nil {
		return -1, err
	}
	i := r.indexOf(hash)
	if i < 0 {
		return -1, errors.Newf("%s is not on the current branch", ref)
	}
	return i, nil
}

// tagsAt returns the tags on hash matching pattern, largest sequence first
func (r *FakeRepository) tagsAt(hash, pattern string) []string {
	var names []string
	for name, target := range r.tags {
		if target != hash {
			continue
		}
		if ok, _ := path.Match(pattern, name); ok {
			names = append(names, name)
		}
	}
	// longer names first, then lexicographically descending: D.10 before D.9
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && less(names[j-1], names[j]); j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	return names
}

func less(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// Describe returns the nearest tag matching pattern reachable from HEAD
func (r *FakeRepository) Describe(ctx context.Context, pattern string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("Describe"); err != nil {
		return "", err
	}
	for i := len(r.commits) - 1; i >= 0; i-- {
		if names := r.tagsAt(r.commits[i].Hash, pattern); len(names) > 0 {
			return names[0], nil
		}
	}
	return "", errors.NewNotFoundError("no names found matching %s", pattern)
}

// DescribeExact returns a tag pointing exactly at ref
func (r *FakeRepository) DescribeExact(ctx context.Context, ref string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("DescribeExact"); err != nil {
		return "", err
	}
	hash, err := r.resolve(ref)
	if err != nil {
		return "", err
	}
	if names := r.tagsAt(hash, "*"); len(names) > 0 {
		return names[0], nil
	}
	return "", errors.NewNotFoundError("no tag exactly matches %s", ref)
}

// RevParse resolves ref to a full hash
func (r *FakeRepository) RevParse(ctx context.Context, ref string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("RevParse"); err != nil {
		return "", err
	}
	return r.resolve(ref)
}

// TagExists reports whether name is a known tag
func (r *FakeRepository) TagExists(ctx context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("TagExists"); err != nil {
		return false, err
	}
	_, ok := r.tags[name]
	return ok, nil
}

// RevList returns the commit a tag points at
func (r *FakeRepository) RevList(ctx context.Context, tag string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("RevList"); err != nil {
		return "", err
	}
	hash, ok := r.tags[tag]
	if !ok {
		return "", errors.NewNotFoundError("tag %s not found", tag)
	}
	return hash, nil
}

// Log returns the commits after start up to and including end, newest first
func (r *FakeRepository) Log(ctx context.Context, start, end string) ([]vcs.Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.injected("Log"); err != nil {
		return nil, err
	}
	hi, err := r.position(end)
	if err != nil {
		return nil, err
	}
	lo := -1
	if start != "" {
		if lo, err = r.position(start); err != nil {
			return nil, err
		}
	}
	var out []vcs.Commit
	for i := hi; i > lo; i-- {
		out = append(out, r.commits[i])
	}
	return out, nil
}

// Tag creates name at commit and records the call
func (r *FakeRepository) Tag(ctx context.Context, name, commit string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "tag "+name+" "+commit)
	if err := r.injected("Tag"); err != nil {
		return err
	}
	if _, ok := r.tags[name]; ok {
		return errors.Newf("tag '%s' already exists", name)
	}
	hash, err := r.resolve(commit)
	if err != nil {
		return err
	}
	r.tags[name] = hash
	return nil
}

// Push records tag as published to remote
func (r *FakeRepository) Push(ctx context.Context, remote, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "push "+remote+" "+tag)
	if err := r.injected("Push"); err != nil {
		return err
	}
	if _, ok := r.tags[tag]; !ok {
		return errors.Newf("src refspec refs/tags/%s does not match any", tag)
	}
	r.pushed[remote] = append(r.pushed[remote], tag)
	return nil
}

var _ vcs.Repository = (*FakeRepository)(nil)
