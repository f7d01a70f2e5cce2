// Package version reports build information for the changeset binary.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/teranos/changeset/version.Version=v1.4.0 \
//	  -X github.com/teranos/changeset/version.CommitHash=$(git rev-parse HEAD)"
var (
	CommitHash = "dev"
	BuildTime  = "unknown"
	Version    = "dev"
)

// Info contains version and build information
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Semver parses Version. ok is false for dev builds and unparsable stamps.
func (i Info) Semver() (v *semver.Version, ok bool) {
	v, err := semver.NewVersion(strings.TrimSpace(i.Version))
	if err != nil {
		return nil, false
	}
	return v, true
}

// IsRelease reports whether the binary was stamped with a semantic version
func (i Info) IsRelease() bool {
	_, ok := i.Semver()
	return ok
}

func (i Info) String() string {
	name := "dev"
	if v, ok := i.Semver(); ok {
		name = "v" + v.String()
	}
	return fmt.Sprintf("changeset %s (commit %s, built %s)", name, i.Short(), i.BuildTime)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
