// Package version reports build information for the qs binary.
package version

import (
	"fmt"
	"runtime"

	goversion "github.com/hashicorp/go-version"
)

// Set with -ldflags "-X github.com/satishbabariya/query-serializer/cli/internal/version.Version=..."
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info describes the running binary
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns information about the running binary
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Semver parses Version. Development builds such as "dev" do not parse.
func (i Info) Semver() (*goversion.Version, error) {
	v, err := goversion.NewVersion(i.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", i.Version, err)
	}
	return v, nil
}

// Rows returns the fields as label/value pairs for table output
func (i Info) Rows() [][]string {
	return [][]string{
		{"Version", i.Version},
		{"Build Date", i.BuildDate},
		{"Git Commit", i.GitCommit},
		{"Go Version", i.GoVersion},
		{"Platform", i.Platform},
	}
}

func (i Info) String() string {
	return fmt.Sprintf("qs version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}
