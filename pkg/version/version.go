// Package version carries the engine's release identification.
package version

import "fmt"

const (
	// Major represents the current major version of sizew.
	Major = 0
	// Minor represents the current minor version of sizew.
	Minor = 1
	// Patch represents the current patch version of sizew.
	Patch = 0
)

// Semantic is the "major.minor.patch" rendering of the current version.
var Semantic string

func init() {
	Semantic = fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
}
