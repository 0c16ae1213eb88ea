// Package version provides version information for nvr.
package version

import "runtime/debug"

// Version and Commit are set at build time with -ldflags "-X ...".
var (
	Version = "development"
	Commit  = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the version, with the commit appended when known. A
// development build installed with "go install module@version" reports
// the module version instead.
func String() string {
	v := Version
	if v == "development" {
		if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if Commit != "unknown" && Commit != "" {
		return v + "+" + Commit
	}
	return v
}
