package buildinfo

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewInfo(t *testing.T) {
	tests := []struct {
		name                  string
		version, date, commit string
		want                  Info
	}{
		{
			name:    "all set",
			version: "v1.0.0", date: "2024-01-01", commit: "abc123",
			want: Info{Version: "v1.0.0", Date: "2024-01-01", Commit: "abc123"},
		},
		{
			name: "empty values",
			want: Info{Version: "N/A", Date: "N/A", Commit: "N/A"},
		},
		{
			name:    "partial",
			version: "v2",
			want:    Info{Version: "v2", Date: "N/A", Commit: "N/A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, *NewInfo(tt.version, tt.date, tt.commit))
		})
	}
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2024-06-01T10:00:00Z"},
		},
	}

	info := DefaultInfo()
	info.fill(bi)
	assert.Equal(t, Info{Version: "v0.3.1", Date: "2024-06-01T10:00:00Z", Commit: "deadbeef"}, *info)

	// Значения из ldflags не перезаписываются
	info = NewInfo("v9", "", "cafe")
	info.fill(bi)
	assert.Equal(t, Info{Version: "v9", Date: "2024-06-01T10:00:00Z", Commit: "cafe"}, *info)

	info = DefaultInfo()
	info.fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "N/A", info.Version)
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	NewInfo("v1.0.0", "2024-01-01", "abc123").Log(zap.New(core))

	entries := logs.FilterMessage("Build info").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "v1.0.0", fields["version"])
		assert.Equal(t, "abc123", fields["commit"])
	}
}

func TestResolveDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { DefaultInfo().Resolve() })
}
