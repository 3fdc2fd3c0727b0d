package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.GitCommit)
	assert.NotEmpty(t, info.BuildDate)
	assert.Contains(t, info.String(), "migraph "+Version)
	assert.Contains(t, info.FullString(), "platform: "+runtime.GOOS)
}

func TestFromSettings(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	var info Info
	info.fromSettings(settings)
	assert.Equal(t, "0123456789ab", info.GitCommit)
	assert.Equal(t, "2026-01-02T03:04:05Z", info.BuildDate)
	assert.True(t, info.Modified)
	assert.Contains(t, info.FullString(), "0123456789ab (dirty)")

	// ldflags values win
	info = Info{GitCommit: "release", BuildDate: "today"}
	info.fromSettings(settings)
	assert.Equal(t, "release", info.GitCommit)
	assert.Equal(t, "today", info.BuildDate)
}
