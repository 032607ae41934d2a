// Package version holds build metadata injected with -ldflags.
package version

//nolint:gochecknoglobals // set at link time
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// GetVersion returns the release version, or "dev" for local builds.
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
