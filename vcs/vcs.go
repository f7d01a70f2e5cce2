// Package vcs defines the version-control capability the release workflow
// consumes. Backends live in the gitcli (subprocess) and gogit (in-process)
// subpackages.
package vcs

import (
	"context"
	"strings"
)

// Commit is a single commit with its full message (subject and body)
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

// Short returns the abbreviated hash
func (c Commit) Short() string {
	return ShortHash(c.Hash)
}

// Subject returns the first line of the message
func (c Commit) Subject() string {
	subject, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	return subject
}

// ShortHash abbreviates a full commit hash to 7 characters
func ShortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// Repository is the set of version-control operations used by changeset.
//
// Lookups that find nothing (Describe, DescribeExact) return an error
// wrapping errors.ErrNotFound so callers can tell absence from failure.
type Repository interface {
	// Describe returns the most recent tag reachable from HEAD whose name
	// matches the glob pattern.
	Describe(ctx context.Context, pattern string) (string, error)

	// DescribeExact returns a tag pointing exactly at ref.
	DescribeExact(ctx context.Context, ref string) (string, error)

	// RevParse resolves ref to a full commit hash, peeling annotated tags.
	RevParse(ctx context.Context, ref string) (string, error)

	// TagExists reports whether a tag with the given name exists.
	TagExists(ctx context.Context, name string) (bool, error)

	// RevList returns the commit hash a tag points at.
	RevList(ctx context.Context, tag string) (string, error)

	// Log returns commits reachable from end but not from start, with full
	// messages.
	Log(ctx context.Context, start, end string) ([]Commit, error)

	// Tag creates a lightweight tag at commit.
	Tag(ctx context.Context, name, commit string) error

	// Push publishes the tag to remote.
	Push(ctx context.Context, remote, tag string) error
}
