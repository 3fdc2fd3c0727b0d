// Package version reports the migraph build. The config file records the
// Version that last wrote it so older binaries can warn about newer files.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is overridden with -ldflags at release time.
	Version = "0.3.0"
	// BuildDate and GitCommit fall back to the module build info.
	BuildDate = ""
	GitCommit = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GitCommit string `json:"git_commit" yaml:"git_commit"`
	Modified  bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func Get() Info {
	info := Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fromSettings(bi.Settings)
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	return info
}

// fromSettings fills unset fields from the vcs stamp go build embeds.
func (i *Info) fromSettings(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == "" {
				i.GitCommit = shortCommit(s.Value)
			}
		case "vcs.time":
			if i.BuildDate == "" {
				i.BuildDate = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func (i Info) String() string {
	return fmt.Sprintf("migraph %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString is the multi-line form printed by 'migraph version'.
func (i Info) FullString() string {
	commit := i.GitCommit
	if i.Modified {
		commit += " (dirty)"
	}
	return fmt.Sprintf(`migraph %s
  commit:   %s
  built:    %s
  platform: %s
  go:       %s`, i.Version, commit, i.BuildDate, i.Platform, i.GoVersion)
}
