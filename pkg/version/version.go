// Package version carries build-time version metadata.
package version

import "fmt"

// Set via -ldflags at release build time.
var (
	Version = "0.3.0"
	Commit  = "dev"
)

// String returns the human-readable version line.
func String() string {
	return fmt.Sprintf("cscope %s (%s)", Version, Commit)
}
