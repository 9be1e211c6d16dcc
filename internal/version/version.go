// Package version holds build metadata injected via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/mj1618/menulister/internal/version.Version=v1.2.0"
package version

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
