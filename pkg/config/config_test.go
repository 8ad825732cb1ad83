package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/graft/pkg/config"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), ".graft.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConventions(), cfg.Conventions())
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, t.TempDir(), ".graft.yaml", `
marker: "#>"
region_name: auto
orphan_policy: remove
no_match_policy: remove
history_limit: 32
debounce: 1s
log_level: debug
log_format: json
generators:
  - name: record
    pattern: '^record (?P<name>\w+)$'
    template: "public record {{ .Named.name }};"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.Conventions{Marker: "#>", RegionName: "auto"}, cfg.Conventions())
	assert.Equal(t, domain.OrphanRemove, cfg.OrphanPolicy)
	assert.Equal(t, domain.NoMatchRemove, cfg.NoMatchPolicy)
	assert.Equal(t, 32, cfg.HistoryLimit)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	require.Len(t, cfg.Generators, 1)
	assert.Equal(t, "record", cfg.Generators[0].Name)
}

func TestLoad_JSONKeepsUnsetDefaults(t *testing.T) {
	path := write(t, t.TempDir(), ".graft.json", `{"orphan_policy": "remove", "history_limit": 8}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.OrphanRemove, cfg.OrphanPolicy)
	assert.Equal(t, 8, cfg.HistoryLimit)
	assert.Equal(t, domain.NoMatchPreserve, cfg.NoMatchPolicy)
	assert.Equal(t, config.DefaultDebounce, cfg.Debounce)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "markr: x\n"},
		{"bad orphan policy", "orphan_policy: shred\n"},
		{"bad no-match policy", "no_match_policy: maybe\n"},
		{"empty marker", "marker: \"\"\n"},
		{"padded marker", "marker: \" //\"\n"},
		{"history limit", "history_limit: 0\n"},
		{"log level", "log_level: loud\n"},
		{"log format", "log_format: xml\n"},
		{"nameless generator", "generators:\n  - pattern: x\n    template: y\n"},
		{"malformed yaml", "marker: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := write(t, t.TempDir(), ".graft.yaml", tt.content)
			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, config.Find(dir))

	write(t, dir, ".graft.json", "{}")
	assert.Equal(t, filepath.Join(dir, ".graft.json"), config.Find(dir))

	write(t, dir, ".graft.yaml", "")
	assert.Equal(t, filepath.Join(dir, ".graft.yaml"), config.Find(dir), "yaml wins over json")
}

func TestConfig_Registry(t *testing.T) {
	cfg, err := config.Decode(map[string]any{
		"generators": []any{
			map[string]any{
				"name":     "record",
				"pattern":  `^record (?P<name>\w+)$`,
				"template": "public record {{ .Named.name }};",
			},
		},
	})
	require.NoError(t, err)

	reg, err := cfg.Registry(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"class", "record"}, reg.Rules())

	code, ok := reg.Compile("record Point")
	require.True(t, ok)
	assert.Equal(t, "public record Point;", code)

	cfg.Generators[0].Pattern = "("
	_, err = cfg.Registry(nil)
	assert.Error(t, err)
}
