package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, Version, info.Version)
}

func TestInfo_String(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"dev build", Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"},
			"changeset dev (commit dev, built unknown)"},
		{"release", Info{Version: "v1.4.0", CommitHash: "0123456789abcdef", BuildTime: "2026-10-01"},
			"changeset v1.4.0 (commit 0123456, built 2026-10-01)"},
		{"release without v", Info{Version: "2.0.1", CommitHash: "abc", BuildTime: "x"},
			"changeset v2.0.1 (commit abc, built x)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestInfo_Semver(t *testing.T) {
	v, ok := Info{Version: "v1.2.3-rc.1"}.Semver()
	assert.True(t, ok)
	assert.Equal(t, uint64(1), v.Major())
	assert.Equal(t, "rc.1", v.Prerelease())

	assert.False(t, Info{Version: "dev"}.IsRelease())
	assert.True(t, Info{Version: "0.9.0"}.IsRelease())
}
