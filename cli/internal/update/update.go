// Package update compares the running version against the latest release.
package update

import (
	"fmt"
	"os"

	goversion "github.com/hashicorp/go-version"
)

// LatestEnv overrides the latest known release, for pinned environments and tests
const LatestEnv = "QS_LATEST_VERSION"

// latestRelease is bumped on every release
const latestRelease = "0.1.0"

// Result is the outcome of an update check
type Result struct {
	Current   *goversion.Version
	Latest    *goversion.Version
	Available bool
}

// Latest returns the latest known release version string
func Latest() string {
	if v := os.Getenv(LatestEnv); v != "" {
		return v
	}
	return latestRelease
}

// Check reports whether latest is newer than current
func Check(current, latest string) (*Result, error) {
	cur, err := goversion.NewVersion(current)
	if err != nil {
		return nil, fmt.Errorf("invalid version format: %w", err)
	}
	lat, err := goversion.NewVersion(latest)
	if err != nil {
		return nil, fmt.Errorf("invalid latest version format: %w", err)
	}

	return &Result{
		Current:   cur,
		Latest:    lat,
		Available: cur.LessThan(lat),
	}, nil
}

// InstallHint returns the command that installs the latest release
func InstallHint() string {
	return "go install github.com/satishbabariya/query-serializer/cli@latest"
}
