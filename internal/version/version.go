// Package version carries the build metadata stamped in by the linker.
package version

// Overridden via -ldflags at release time; the defaults identify a local
// development build.
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)
