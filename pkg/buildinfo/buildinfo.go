// Package buildinfo contains build information.
//
// Some of the build information is set during compilation by passing
// -ldflags "-X src.tarn.sh/pkg/buildinfo.Var=value" to "go build":
//
//   - VCSOverride, to identify development builds made without a VCS checkout.
//   - Reproducible, "true" for reproducible builds.
//   - Memoization, "off" to build a tarn that never caches function results.
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"src.tarn.sh/pkg/prog"
)

// VersionBase is the version of tarn, without any suffix. On development
// commits, it identifies the next release.
const VersionBase = "0.1.0"

// IsRelease is true on release commits.
const IsRelease = false

// VCSOverride may be set during compilation to "time-commit" (e.g.
// "20220401235958-123456789012") for use as the version suffix of development
// builds.
var VCSOverride string

// Reproducible identifies whether the build is reproducible.
var Reproducible = "false"

// Memoization is the default setting for the cache of function results,
// "on" or "off". The -nomemo flag can turn an "on" default off, but never
// the other way around.
var Memoization = "on"

// Type contains all the build information fields.
type Type struct {
	Version      string `json:"version"`
	Reproducible bool   `json:"reproducible"`
	GoVersion    string `json:"goversion"`
	Memoization  bool   `json:"memoization"`
}

// Value contains all the build information.
var Value = Type{
	Version:      version(),
	Reproducible: Reproducible == "true",
	GoVersion:    runtime.Version(),
	Memoization:  MemoizationEnabled(),
}

// MemoizationEnabled returns whether the cache of function results is on by
// default.
func MemoizationEnabled() bool { return Memoization != "off" }

func version() string {
	if IsRelease {
		return VersionBase
	}
	return devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo)
}

func devVersion(next, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := readBuildInfo()
	if !ok {
		return fallback
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		// Built with "go install src.tarn.sh/cmd/tarn@version".
		return strings.TrimPrefix(v, "v")
	}

	var revision, timestamp string
	modified := false
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			timestamp = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" || timestamp == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return fallback
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	v := next + "-dev.0." + t.UTC().Format("20060102150405") + "-" + revision
	if modified {
		v += "-dirty"
	}
	return v
}

// Program is the buildinfo subprogram, handling -version and -buildinfo.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "show version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "show build info and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value))
		} else {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
			fmt.Fprintln(fds[1], "Reproducible build:", Value.Reproducible)
			fmt.Fprintln(fds[1], "Memoization:", onOff(Value.Memoization))
		}
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value.Version))
		} else {
			fmt.Fprintln(fds[1], Value.Version)
		}
	default:
		return prog.NextProgram()
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func mustToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
