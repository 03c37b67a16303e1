package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"devel", Info{Version: "devel"}, "modelexport devel"},
		{"tagged", Info{Version: "v0.4.0", Revision: "1a2b3c4d5e6f7a8b", BuildTime: "2026-01-02T03:04:05Z"}, "modelexport v0.4.0 (1a2b3c4d5e6f, 2026-01-02T03:04:05Z)"},
		{"dirty tree", Info{Version: "devel", Revision: "abc1234", Modified: true}, "modelexport devel (abc1234+dirty)"},
		{"time only", Info{Version: "devel", BuildTime: "now"}, "modelexport devel (now)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.info.String())
		})
	}
}

func TestFromBuildInfo(t *testing.T) {
	vcs := []debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "1a2b3c4d5e6f7a8b"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	tests := []struct {
		name    string
		stamped Info
		bi      *debug.BuildInfo
		want    Info
	}{
		{
			name: "no build info",
			want: Info{Version: "devel"},
		},
		{
			name: "local checkout",
			bi:   &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: vcs},
			want: Info{Version: "devel", Revision: "1a2b3c4d5e6f7a8b", BuildTime: "2026-01-02T03:04:05Z", Modified: true},
		},
		{
			name: "go install of a tag",
			bi:   &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}},
			want: Info{Version: "v0.4.0"},
		},
		{
			name:    "stamps win",
			stamped: Info{Version: "v9.9.9", Revision: "cafe", BuildTime: "then"},
			bi:      &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}, Settings: vcs},
			want:    Info{Version: "v9.9.9", Revision: "cafe", BuildTime: "then", Modified: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func(v, r, b string) { Version, Revision, BuildTime = v, r, b }(Version, Revision, BuildTime)
			Version, Revision, BuildTime = tt.stamped.Version, tt.stamped.Revision, tt.stamped.BuildTime

			got := fromBuildInfo(tt.bi)
			tt.want.GoVersion = runtime.Version()
			tt.want.Platform = runtime.GOOS + "/" + runtime.GOARCH
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}
