// Package version holds the build metadata of the docxpress binaries.
//
// The variables are set at build time with ldflags:
//
//	go build -ldflags "-X github.com/jmylchreest/docxpress/internal/version.Version=1.0.0 ..."
//
// Library consumers get the module version from pkg/docxpress.Version.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build-time variables set via ldflags
var (
	// Version is the semantic version (e.g., "1.0.0" or "1.0.0-dev.5+abc123")
	Version = "dev"

	// Commit is the git commit SHA
	Commit = "unknown"

	// Dirty indicates if the working tree had uncommitted changes
	Dirty = "false"

	// BuildDate is the UTC build timestamp in RFC3339 format
	BuildDate = "unknown"
)

// Info contains structured version information
type Info struct {
	Program   string   `json:"program" yaml:"program"`
	Version   string   `json:"version" yaml:"version"`
	Commit    string   `json:"commit" yaml:"commit"`
	Dirty     bool     `json:"dirty" yaml:"dirty"`
	BuildDate string   `json:"build_date" yaml:"build_date"`
	GoVersion string   `json:"go_version" yaml:"go_version"`
	Platform  string   `json:"platform" yaml:"platform"`
	Dialects  []string `json:"dialects" yaml:"dialects"`
}

// Get returns the version information of program, including the dialects it
// can produce.
func Get(program string, dialects []string) Info {
	return Info{
		Program:   program,
		Version:   Version,
		Commit:    Commit,
		Dirty:     Dirty == "true",
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Dialects:  dialects,
	}
}

// String returns a single-line version string
func String() string {
	v := Version
	if Dirty == "true" {
		v += "-dirty"
	}
	return v
}

// Full returns a multi-line version string with all details
func (i Info) Full() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", i.Program, String())
	fmt.Fprintf(&sb, "  Commit:     %s\n", i.Commit)
	if i.Dirty {
		sb.WriteString("  Dirty:      yes\n")
	}
	fmt.Fprintf(&sb, "  Built:      %s\n", i.BuildDate)
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  OS/Arch:    %s", i.Platform)
	if len(i.Dialects) > 0 {
		fmt.Fprintf(&sb, "\n  Dialects:   %s", strings.Join(i.Dialects, ", "))
	}
	return sb.String()
}
