package app

import (
	"fmt"
	"runtime"
)

// Build information, set with -ldflags "-X github.com/agbru/sysoptimizer/internal/app.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// versionString is what --version prints after the program name.
func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s/%s)", Version, Commit, BuildDate, runtime.GOOS, runtime.GOARCH)
}
