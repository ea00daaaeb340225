// Package version provides build and version information.
package version

import (
	"fmt"
	"runtime"
)

// Version is the current application version.
const Version = "0.3.0"

// Commit and Date are set at build time with -ldflags "-X ...".
var (
	Commit = "dev"
	Date   = ""
)

// String formats the full version line.
func String() string {
	s := fmt.Sprintf("ls-qamar v%s (%s, %s/%s)", Version, Commit, runtime.GOOS, runtime.GOARCH)
	if Date != "" {
		s += " built " + Date
	}
	return s
}

// Milestones:
// 0.3.0 - JSON API server, PostgreSQL backend with local accounts, Redis sessions
// 0.2.0 - Journal, quiz and dashboard behind sign-in, hosted backend support
// 0.1.0 - Initial release: moon phase, qibla, prayer times, hijri calendar, headless modes
