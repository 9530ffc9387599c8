// Package version reports build metadata for the reclam binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are set at build time via ldflags
var (
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version string (commit-hash based, no semver)
func String() string {
	return fmt.Sprintf("reclam dev (commit: %s, built: %s)", shortCommit(), BuildTime)
}

// shortCommit prefers the ldflags value and falls back to the VCS stamp
// the go tool embeds in module builds.
func shortCommit() string {
	commit := Commit
	if commit == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					commit = s.Value
				}
			}
		}
	}
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
