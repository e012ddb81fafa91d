// Package buildinfo reports which build of lineage is running.
//
// Release builds stamp the version with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/lineage/pkg/buildinfo.Version=v1.0.0" ./cmd/lineage
//
// Commit and build date come from the VCS stamp Go embeds in the binary, so
// a plain `go build` inside a checkout still reports them. Both can also be
// set with ldflags when building outside version control.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"

	// Commit is the git revision, filled from the VCS stamp when empty.
	Commit = ""

	// Date is the commit time in RFC 3339, filled from the VCS stamp when
	// empty.
	Date = ""
)

// Info describes the running binary. It is served by the HTTP health
// endpoint and printed by `lineage version --json`.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"goVersion"`
}

// Get returns the build information of the running binary.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuildInfo(bi)
}

// fromBuildInfo overlays the ldflags variables on the VCS settings of bi.
func fromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	if bi == nil {
		return info.withDefaults()
	}
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info.withDefaults()
}

func (i Info) withDefaults() Info {
	if i.Commit == "" {
		i.Commit = "none"
	}
	if i.Date == "" {
		i.Date = "unknown"
	}
	return i
}

// ShortCommit returns the first 12 characters of the commit.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 12 {
		return i.Commit[:12]
	}
	return i.Commit
}

// String formats the information for `lineage version`.
func (i Info) String() string {
	commit := i.ShortCommit()
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", i.Version, commit, i.Date, i.GoVersion)
}

// Template returns the cobra --version template.
func (i Info) Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", i.Version, i.ShortCommit(), i.Date)
}
