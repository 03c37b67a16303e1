// Package version identifies the modelexport build that generated a file.
//
// Values stamped with -ldflags "-X" take precedence. A plain `go build` or
// `go install` leaves them empty and they are read from the module version
// and VCS settings the go command embeds in the binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Stamped at link time, e.g.
//
//	-ldflags "-X github.com/teranos/modelexport/version.Version=v0.4.0"
var (
	Version   string
	Revision  string
	BuildTime string
)

// develVersion marks a build with no module version and no stamp
const develVersion = "devel"

// Info describes one modelexport binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Revision  string `json:"revision,omitempty" yaml:"revision,omitempty"`
	Modified  bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
	BuildTime string `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// Get returns the information of the running binary
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return fromBuildInfo(bi)
}

// fromBuildInfo merges the link-time stamps with bi, which may be nil
func fromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{
		Version:   Version,
		Revision:  Revision,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi != nil {
		if info.Version == "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Revision == "" {
					info.Revision = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}
	if info.Version == "" {
		info.Version = develVersion
	}
	return info
}

// ShortRevision returns the first 12 characters of the revision
func (i Info) ShortRevision() string {
	if len(i.Revision) > 12 {
		return i.Revision[:12]
	}
	return i.Revision
}

// String renders "modelexport v0.4.0 (1a2b3c4d5e6f+dirty, 2026-01-02T03:04:05Z)",
// leaving out whatever is unknown
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "modelexport %s", i.Version)

	var extra []string
	if rev := i.ShortRevision(); rev != "" {
		if i.Modified {
			rev += "+dirty"
		}
		extra = append(extra, rev)
	}
	if i.BuildTime != "" {
		extra = append(extra, i.BuildTime)
	}
	if len(extra) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(extra, ", "))
	}
	return b.String()
}
