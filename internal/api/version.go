package api

// Version information - these will be set at build time via ldflags
var (
	ServiceVersion = "dev"
	GitCommit      = "unknown"
	BuildTime      = "unknown"
)

// GetVersionInfo returns the current version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		ServiceVersion: ServiceVersion,
		GitCommit:      GitCommit,
		BuildTime:      BuildTime,
	}
}
