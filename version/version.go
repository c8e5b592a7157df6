// Package version tells which build of modtool is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at build time, e.g.
// go build -ldflags "-X github.com/vsariola/modtool/version.Version=$(git describe --dirty)"
var Version string

// Build describes the running binary as recorded by the Go toolchain.
type Build struct {
	Revision  string // short VCS revision, "" if unknown
	Modified  bool
	GoVersion string
}

// ReadBuild returns the build information embedded in the binary.
func ReadBuild() Build {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Build{}
	}
	b := Build{GoVersion: info.GoVersion}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.Revision = setting.Value
			if len(b.Revision) > 7 {
				b.Revision = b.Revision[:7]
			}
		case "vcs.modified":
			b.Modified = setting.Value == "true"
		}
	}
	return b
}

// Hash is the short revision, with a -dirty suffix for modified trees.
func (b Build) Hash() string {
	if b.Revision == "" {
		return ""
	}
	if b.Modified {
		return b.Revision + "-dirty"
	}
	return b.Revision
}

// VersionOrHash is the release version if set, otherwise the VCS hash.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	if h := ReadBuild().Hash(); h != "" {
		return h
	}
	return "devel"
}()

// String is the one line version banner.
func String() string {
	b := ReadBuild()
	if b.GoVersion == "" {
		return fmt.Sprintf("modtool %s", VersionOrHash)
	}
	return fmt.Sprintf("modtool %s (%s)", VersionOrHash, b.GoVersion)
}
