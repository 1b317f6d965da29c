// Package version holds build metadata injected via ldflags.
package version

// Set via -ldflags "-X github.com/pdiddy/sheetfinder/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
