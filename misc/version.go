// Package misc keeps build time information.
package misc

// set by the linker: -X lbm/misc.version=... -X lbm/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
	appName = "lbm"
)

func GetVersion() string { return version }

func GetGitHash() string { return gitHash }

func GetAppName() string { return appName }
