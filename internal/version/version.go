// Package version holds build metadata stamped into the gorecon binary.
package version

import "fmt"

// Set at build time:
//
//	go build -ldflags "-X github.com/alexiusacademia/gorecon/internal/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"

	Author = "Alexius Academia"
	Year   = "2025"
)

// Info returns a one-line build description
func Info() string {
	return fmt.Sprintf("gorecon v%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
