// Package version exposes build metadata stamped in with -ldflags "-X".
package version

import "fmt"

//nolint:gochecknoglobals // overwritten by the linker
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String is the one-line build description logged at startup.
func String() string {
	return fmt.Sprintf("vidshare %s (%s, %s)", Version, Commit, Date)
}
