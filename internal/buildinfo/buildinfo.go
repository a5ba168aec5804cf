// Package buildinfo holds the version metadata of the lk binary.
// The linker sets variables in cmd/lk/main.go and main forwards them with Set.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

const (
	unsetCommit  = "none"
	unsetBuiltBy = "unknown"
)

// Info is the metadata printed by lk version.
type Info struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

var current = Info{Version: "dev", Commit: unsetCommit, Date: "unknown", BuiltBy: unsetBuiltBy}

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Set stores the values received from linker-injected variables.
func Set(version, commit, date, builtBy string) {
	current = Info{Version: version, Commit: commit, Date: date, BuiltBy: builtBy}
}

// Version returns the build version string.
func Version() string { return current.Version }

// Current returns the build metadata. A commit or builder the linker did not
// set is taken from the Go build info (VCS revision and Go version).
func Current() Info {
	info := current
	if info.Commit != unsetCommit && info.BuiltBy != unsetBuiltBy {
		return info
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Commit == unsetCommit {
		for _, setting := range bi.Settings {
			if setting.Key == "vcs.revision" {
				info.Commit = setting.Value
			}
		}
	}
	if info.BuiltBy == unsetBuiltBy {
		info.BuiltBy = bi.GoVersion
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("lk version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s", i.Version, i.Commit, i.Date, i.BuiltBy)
}
