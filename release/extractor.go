package release

import (
	"regexp"
	"sort"

	"github.com/teranos/changeset/errors"
	"github.com/teranos/changeset/vcs"
)

// DefaultTicketPattern matches Jira keys of the INV project
const DefaultTicketPattern = `INV-\d+`

// Extractor finds ticket keys in commit messages
type Extractor struct {
	pattern *regexp.Regexp
}

// NewExtractor compiles pattern. An empty or invalid pattern is a
// configuration error.
func NewExtractor(pattern string) (*Extractor, error) {
	if pattern == "" {
		return nil, errors.NewInvalidRequestError("ticket pattern cannot be empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "invalid ticket pattern %q", pattern), errors.ErrInvalidRequest)
	}
	return &Extractor{pattern: re}, nil
}

// Extract returns the distinct keys mentioned anywhere in the commit
// messages, sorted
func (e *Extractor) Extract(commits []vcs.Commit) []string {
	seen := make(map[string]struct{})
	for _, c := range commits {
		for _, key := range e.pattern.FindAllString(c.Message, -1) {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
