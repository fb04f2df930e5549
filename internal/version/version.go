// Package version exposes build metadata injected at link time.
package version

// Overridable via ldflags:
//
//	go build -ldflags "-X specmap/internal/version.Version=1.2.0 \
//	  -X specmap/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "0.1.0"
	Commit    = ""
	BuildDate = ""
)

// String renders the version, with the short commit hash appended when a
// commit was injected.
func String() string {
	if len(Commit) >= 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}
