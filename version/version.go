package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Stamped with -ldflags -X.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// product prefixes the User-Agent sent by logkit clients.
const product = "logkit-go"

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit,omitempty"`
	BuildTime string `json:"buildTime,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// Get returns the build information, preferring stamped values over the
// embedded VCS settings.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(setting.Value)
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Dirty = setting.Value == "true"
		}
	}
	return info
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// IsRelease reports whether the build carries a stamped release version.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !i.Dirty && !strings.Contains(i.Version, "dirty")
}

// Short returns version[-commit][-dirty].
func (i Info) Short() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.Dirty {
		parts = append(parts, "dirty")
	}
	return strings.Join(parts, "-")
}

// String renders the multi-line form printed by logctl version.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "version:    %s\n", i.Version)
	if i.GitCommit != "" {
		fmt.Fprintf(&b, "commit:     %s\n", i.GitCommit)
	}
	if i.BuildTime != "" {
		fmt.Fprintf(&b, "built:      %s\n", i.BuildTime)
	}
	fmt.Fprintf(&b, "go version: %s\n", i.GoVersion)
	fmt.Fprintf(&b, "platform:   %s\n", i.Platform)
	return b.String()
}

// UserAgent is the User-Agent header value for requests sent by logkit.
//
//	logkit-go/1.2.0 (linux; amd64; go1.25.1)
func UserAgent() string {
	info := Get()
	return fmt.Sprintf("%s/%s (%s; %s; %s)", product, info.Short(), runtime.GOOS, runtime.GOARCH, info.GoVersion)
}
