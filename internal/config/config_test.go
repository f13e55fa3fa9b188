package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deperrors "github.com/matzehuels/depgraph/pkg/errors"
	"github.com/matzehuels/depgraph/pkg/match"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, match.DefaultOptions(), cfg.MatchOptions())
	assert.Equal(t, "dot", cfg.Render.Format)
	assert.Equal(t, "neato", cfg.Render.Layout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[match]
app_prefix = "spdk-"
app_types  = ["tools"]

[render]
format = "svg"
layout = "dot"

[server]
addr  = "127.0.0.1:9000"
watch = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "spdk-", cfg.Match.AppPrefix)
	assert.Equal(t, []string{"tools"}, cfg.Match.AppTypes)
	assert.Equal(t, "drivers", cfg.Match.DriverType, "unset keys keep their default")
	assert.Equal(t, "svg", cfg.Render.Format)
	assert.Equal(t, "dot", cfg.Render.Layout)
	assert.Equal(t, 2.0, cfg.Render.Scale)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.True(t, cfg.Server.Watch)

	opts := cfg.PipelineOptions()
	assert.Equal(t, "svg", opts.Format)
	assert.Equal(t, "dot", opts.Layout)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[server]\naddr = \":7000\"\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[match\n"},
		{"unknown key", "[match]\nprefix = \"x\"\n"},
		{"unknown section", "[colors]\nfg = 1\n"},
		{"bad format", "[render]\nformat = \"gif\"\n"},
		{"bad layout", "[render]\nlayout = \"spiral\"\n"},
		{"bad scale", "[render]\nscale = 0.0\n"},
		{"empty driver type", "[match]\ndriver_type = \"\"\n"},
		{"bad app type", "[match]\napp_types = [\"a b\"]\n"},
		{"negative cache size", "[server]\ncache_size = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Equal(t, deperrors.ErrCodeInvalidConfig, deperrors.GetCode(err))
		})
	}
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, deperrors.Is(err, deperrors.ErrCodeInvalidConfig))
}

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, ".cache"))

	cfg := Default()
	dir, err := cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cache", AppName), dir)

	cfg.Cache.Dir = "~/artifacts"
	dir, err = cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "artifacts"), dir)

	cfg.Cache.Dir = "/var/cache/dg"
	dir, err = cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/dg", dir)
}
