// Package release computes release tags, resolves the commit range of a
// release, extracts ticket keys from it and drives tickets and tags through
// their release workflow.
package release

import (
	"math"
	"regexp"
	"strconv"

	"github.com/teranos/changeset/errors"
)

const (
	// TagPrefix starts every release tag name
	TagPrefix = "D."

	// TagGlob matches release tags in `git describe --match`
	TagGlob = TagPrefix + "*"
)

var tagPattern = regexp.MustCompile(`^D\.(\d+)$`)

// Tag is a release marker named D.<sequence>
type Tag struct {
	Sequence uint64
}

// FirstTag is used when the history has no release tag yet
var FirstTag = Tag{Sequence: 1}

func (t Tag) String() string {
	return TagPrefix + strconv.FormatUint(t.Sequence, 10)
}

// Next returns the following tag. It fails when the sequence would overflow.
func (t Tag) Next() (Tag, error) {
	if t.Sequence == math.MaxUint64 {
		return Tag{}, errors.Newf("tag sequence overflow after %s", t)
	}
	return Tag{Sequence: t.Sequence + 1}, nil
}

// ParseTag accepts only D.<digits>
func ParseTag(name string) (Tag, error) {
	m := tagPattern.FindStringSubmatch(name)
	if m == nil {
		return Tag{}, errors.NewInvalidRequestError("%q is not a release tag", name)
	}
	seq, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return Tag{}, errors.Mark(errors.Wrapf(err, "release tag %q", name), errors.ErrInvalidRequest)
	}
	return Tag{Sequence: seq}, nil
}
