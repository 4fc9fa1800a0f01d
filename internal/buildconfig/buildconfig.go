// Package buildconfig exposes the release stamp of the spaceoverview
// binaries. Both values are overwritten at link time, for example:
//
//	go build -ldflags "-X github.com/Wilmersdorf/spaceoverview/internal/buildconfig.version=v1.2.0 \
//	  -X github.com/Wilmersdorf/spaceoverview/internal/buildconfig.commit=$(git rev-parse --short HEAD)"
package buildconfig

import "fmt"

const service = "spaceoverview"

var (
	version = "dev"
	commit  = "unknown"
)

// Version is the release tag, "dev" for local builds.
func Version() string {
	return version
}

// VersionInfo is the body of GET /version.
func VersionInfo() map[string]string {
	return map[string]string{
		"service": service,
		"version": version,
		"commit":  commit,
	}
}

// String is used by the server's startup log line and spaceadmin --version.
func String() string {
	return fmt.Sprintf("%s %s (%s)", service, version, commit)
}
