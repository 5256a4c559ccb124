// Package buildinfo carries release metadata, stamped at build time with
// -ldflags "-X github.com/cleared-dev/settle/internal/buildinfo.Version=v1.2.3".
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Summary renders the line printed by settle --version.
func Summary() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
