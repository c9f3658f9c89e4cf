package version

import (
	"fmt"
	"runtime"
)

// Set at build time via -ldflags "-X github.com/milan604/http-errors/pkg/version.Version=v1.2.3".
var (
	// Version is the semantic version of the build. Defaults to "dev".
	Version = "dev"
	// Commit is the short git commit hash.
	Commit = ""
	// Go is the toolchain the binary was built with.
	Go = runtime.Version()
)

// String renders "version (commit, go)", omitting an empty commit.
func String() string {
	if Commit == "" {
		return fmt.Sprintf("%s (%s)", Version, Go)
	}
	return fmt.Sprintf("%s (%s, %s)", Version, Commit, Go)
}
