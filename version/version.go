package version

import (
	"runtime/debug"
	"sync"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/kbukum/trustauth/version.Version=v1.2.0"
var (
	Version   = "dev"
	GitCommit = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty,omitempty"`
}

var (
	once sync.Once
	info Info
)

// Get returns the build info, filling gaps from the embedded VCS stamp.
func Get() Info {
	once.Do(func() { info = read(Version, GitCommit, debug.ReadBuildInfo) })
	return info
}

func read(ver, commit string, buildInfo func() (*debug.BuildInfo, bool)) Info {
	out := Info{Version: ver, GitCommit: commit}
	bi, ok := buildInfo()
	if !ok {
		return out
	}
	out.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if out.GitCommit == "" {
				out.GitCommit = s.Value
			}
		case "vcs.modified":
			out.Dirty = s.Value == "true"
		}
	}
	if len(out.GitCommit) > 7 {
		out.GitCommit = out.GitCommit[:7]
	}
	return out
}

// String renders "v1.2.0-abc1234" or "v1.2.0-abc1234-dirty".
func (i Info) String() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}
