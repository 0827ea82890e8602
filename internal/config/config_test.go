package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hknews/internal/config"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[[groups]]
name = "hk"
[[groups.feeds]]
name = "HKFP"
url = "https://hongkongfp.com/feed/"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "3000", cfg.Server.Port)
	require.Equal(t, 30*time.Minute, cfg.Scheduler.IntervalDuration())
	require.Equal(t, "global", cfg.Groups[0].SourceType)
	require.Equal(t, 15*time.Second, cfg.Groups[0].TimeoutDuration())
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
port = "8080"

[scheduler]
interval = "10m"
run_once = true

[[groups]]
name = "global"
source_type = "global"
timeout = "20s"

[[groups.feeds]]
name = "Reuters"
url = "https://feeds.reuters.com/reuters/worldNews"

[[groups.feeds]]
name = "Bloomberg"
url = "https://feeds.bloomberg.com/markets/news.rss"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.True(t, cfg.Scheduler.RunOnce)
	require.Equal(t, 10*time.Minute, cfg.Scheduler.IntervalDuration())
	require.Len(t, cfg.Groups[0].Feeds, 2)
	require.Equal(t, 20*time.Second, cfg.Groups[0].TimeoutDuration())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no groups", content: `[server]` + "\n" + `port = "3000"`},
		{name: "bad interval", content: "[scheduler]\ninterval = \"soon\"\n[[groups]]\nname = \"g\"\n[[groups.feeds]]\nname = \"f\"\nurl = \"http://x\""},
		{name: "bad timeout", content: "[[groups]]\nname = \"g\"\ntimeout = \"fast\"\n[[groups.feeds]]\nname = \"f\"\nurl = \"http://x\""},
		{name: "group without name", content: "[[groups]]\n[[groups.feeds]]\nname = \"f\"\nurl = \"http://x\""},
		{name: "group without feeds", content: "[[groups]]\nname = \"g\""},
		{name: "feed without url", content: "[[groups]]\nname = \"g\"\n[[groups.feeds]]\nname = \"f\""},
		{name: "not toml", content: "{\"json\": true}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.Default()

	require.Equal(t, "3000", cfg.Server.Port)
	require.Equal(t, 30*time.Minute, cfg.Scheduler.IntervalDuration())
	require.Len(t, cfg.Groups, 3)

	// Region feeds use a tighter budget than global feeds.
	byName := map[string]config.GroupConfig{}
	for _, g := range cfg.Groups {
		byName[g.Name] = g
	}
	require.Equal(t, 15*time.Second, byName["scmp"].TimeoutDuration())
	require.Equal(t, 20*time.Second, byName["global"].TimeoutDuration())
	require.Equal(t, "hk_media", byName["scmp"].SourceType)
}
