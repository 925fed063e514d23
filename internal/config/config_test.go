package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routetable/internal/errors"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultManifest, cfg.Manifest.Path)
	assert.Equal(t, DefaultDebounce, cfg.DebounceDuration())
	assert.True(t, cfg.Server.Metrics)
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.CompileOptions())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	require.Error(t, err)
	var coded *errors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, "R041", coded.Code)

	writeConfig(t, dir, `{
  "manifest": {"path": "app/routes.json"},
  "router": {"caseInsensitive": true, "strictAmbiguity": true},
  "server": {"host": "0.0.0.0", "port": 8080},
  "watch": {"enabled": true, "debounce": "250ms"},
  "log": {"level": "debug", "format": "json"}
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, filepath.Join(dir, "app/routes.json"), cfg.ManifestPath())
	assert.Equal(t, FormatJSON, cfg.ManifestFormat())
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDuration())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Len(t, cfg.CompileOptions(), 2)
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoadDefaultsMissingFields(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"server": {"metrics": false}}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, filepath.Join(dir, DefaultManifest), cfg.ManifestPath())
	assert.Equal(t, FormatYAML, cfg.ManifestFormat())
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"server": `)

	_, err := Load(dir)
	require.Error(t, err)
	var coded *errors.Error
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, "R041", coded.Code)
	assert.Contains(t, coded.Detail, "Failed to parse")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"no manifest", func(c *Config) { c.Manifest.Path = "" }},
		{"s3 without key", func(c *Config) { c.Manifest.S3 = &S3Config{Bucket: "b"} }},
		{"bad format", func(c *Config) { c.Manifest.Format = "toml" }},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = "-1s" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var coded *errors.Error
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, "R040", coded.Code)
		})
	}
}

func TestS3Manifest(t *testing.T) {
	cfg := New()
	cfg.Manifest.Path = ""
	cfg.Manifest.S3 = &S3Config{Bucket: "routes", Key: "prod/routes.json"}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, FormatJSON, cfg.ManifestFormat())
}

func TestFormatFromExt(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromExt("a.JSON"))
	assert.Equal(t, FormatYAML, FormatFromExt("a.yml"))
	assert.Equal(t, FormatYAML, FormatFromExt("a.yaml"))
	assert.Equal(t, FormatText, FormatFromExt("routes.txt"))
	assert.Equal(t, FormatText, FormatFromExt("routes"))
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Router.StrictAmbiguity = true
	cfg.Server.Port = 9000

	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, cfg.SaveTo(path))
	assert.Equal(t, path, cfg.Path())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Router.StrictAmbiguity)
	assert.Equal(t, 9000, loaded.Server.Port)
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{}`)

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	root, err := FindProjectRoot(nested)
	require.NoError(t, err)

	want, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, want, root)
	assert.True(t, Exists(dir))
	assert.False(t, Exists(nested))
}
