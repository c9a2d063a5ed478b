// Package contracts holds types and constants shared across the pipeline
// stages, including the version stamped on every run.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the analysis pipeline
	Version = "0.1.0"

	// SnapshotFormatVersion is the version of the cleaned snapshot layout
	SnapshotFormatVersion = "v1"
)

// GetVersionString returns a formatted version string
func GetVersionString() string {
	return fmt.Sprintf("NYC Condo Sales Analysis v%s (go: %s, os: %s/%s)",
		Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
