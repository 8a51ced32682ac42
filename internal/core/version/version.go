// Package version reports the build stamped into the chatclean binary
package version

import "fmt"

// BuildInfo identifies one build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. Set at link time:
//
//	-ldflags "-X chatclean/internal/core/version.version=v0.1.0 -X chatclean/internal/core/version.commit=abcd"
func Info() BuildInfo {
	return BuildInfo{
		Service: "chatclean",
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String is the one-line form used by --version
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
