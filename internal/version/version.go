// Package version provides the release information of the module,
// populated at link time.
package version

import "fmt"

var (
	// Build is the git tag or commit, set via -ldflags.
	Build = "dev"
	// Commit is the git SHA, set via -ldflags.
	Commit = ""
)

// Info describes the build.
type Info struct {
	Build  string
	Commit string
}

// Current returns the build info.
func Current() Info {
	return Info{Build: Build, Commit: Commit}
}

// String returns a printable version.
func (i Info) String() string {
	if i.Commit == "" {
		return i.Build
	}
	return fmt.Sprintf("%s (%s)", i.Build, i.Commit)
}
