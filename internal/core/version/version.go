// Package version reports the build of the dumpx binary
package version

import (
	"runtime/debug"
)

// BuildInfo holds version information about the build
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Set via -ldflags "-X 'dumpx/internal/core/version.version=v0.1.0' -X 'dumpx/internal/core/version.commit=abcd'"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// Info returns the build information; unset commit and date fall back to the VCS stamp from go build
func Info() BuildInfo {
	bi := BuildInfo{Version: version, Commit: commit, Date: date}
	if bi.Commit != "" && bi.Date != "" {
		return bi
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if bi.Commit == "" {
					bi.Commit = s.Value
				}
			case "vcs.time":
				if bi.Date == "" {
					bi.Date = s.Value
				}
			}
		}
	}
	return bi
}

// String is the one-line form printed by --version
func (b BuildInfo) String() string {
	s := b.Version
	if b.Commit != "" {
		c := b.Commit
		if len(c) > 12 {
			c = c[:12]
		}
		s += " (" + c
		if b.Date != "" {
			s += ", " + b.Date
		}
		s += ")"
	}
	return s
}
