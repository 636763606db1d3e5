package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/lambda/pkg/lambda/config"
)

func TestNew(t *testing.T) {
	assert.NotNil(t, config.New(nil).Raw())
	assert.Equal(t, "v", config.New(map[string]any{"k": "v"}).Raw()["k"])
}

func TestAccessors(t *testing.T) {
	cfg := config.New(map[string]any{
		"name":    "alice",
		"timeout": "30s",
		"wait":    2,
		"retries": 3.0,
		"ratio":   1.5,
		"enabled": true,
		"cache":   map[string]any{"capacity": 64},
		"legacy":  map[any]any{"level": "warn"},
		"a.b":     "flat wins",
		"a":       map[string]any{"b": "nested"},
	})

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", cfg.String("name", "x"), "alice"},
		{"string wrong type", cfg.String("enabled", "x"), "x"},
		{"duration string", cfg.Duration("timeout", 0), 30 * time.Second},
		{"duration seconds", cfg.Duration("wait", 0), 2 * time.Second},
		{"duration invalid", cfg.Duration("name", time.Minute), time.Minute},
		{"int from float", cfg.Int("retries", 0), 3},
		{"int with fraction", cfg.Int("ratio", 7), 7},
		{"bool", cfg.Bool("enabled", false), true},
		{"missing bool", cfg.Bool("missing", true), true},
		{"dotted path", cfg.Int("cache.capacity", 0), 64},
		{"dotted through any map", cfg.String("legacy.level", ""), "warn"},
		{"flat key preferred", cfg.String("a.b", ""), "flat wins"},
		{"path through scalar", cfg.String("name.first", "none"), "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.True(t, cfg.Has("cache.capacity"))
	assert.False(t, cfg.Has("cache.size"))
	assert.Equal(t, 64, cfg.Sub("cache").Int("capacity", 0))
	assert.Nil(t, cfg.Map("name"))
}

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
cache:
  capacity: 128
metrics: true
log:
  level: debug
vars:
  pi: 3.14
`))
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Int("cache.capacity", 0))
	assert.Equal(t, 3.14, cfg.Map("vars")["pi"])

	_, err = config.FromYAML([]byte("key: [unclosed"))
	assert.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"cache": {"capacity": 10}, "tracing": true}`))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Int("cache.capacity", 0))
	assert.True(t, cfg.Bool("tracing", false))

	_, err = config.FromJSON([]byte("{"))
	assert.Error(t, err)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "lambda.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("metrics: true\n"), 0o600))
	cfg, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.True(t, cfg.Bool("metrics", false))

	jsonPath := filepath.Join(dir, "lambda.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"metrics": false}`), 0o600))
	cfg, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.False(t, cfg.Bool("metrics", true))

	_, err = config.FromFile(filepath.Join(dir, "lambda.toml"))
	assert.Error(t, err)

	txtPath := filepath.Join(dir, "lambda.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("x"), 0o600))
	_, err = config.FromFile(txtPath)
	assert.ErrorContains(t, err, "unsupported config file extension")

	emptyPath := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o600))
	cfg, err = config.FromFile(emptyPath)
	require.NoError(t, err)
	assert.Empty(t, cfg.Raw())

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("- a\n- b\n"), 0o600))
	_, err = config.FromFile(badPath)
	assert.ErrorContains(t, err, "bad.yaml")
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := config.Parse([]byte("a = 1"), config.Format("toml"))
	assert.Error(t, err)

	format, err := config.FormatOf("vars.YML")
	require.NoError(t, err)
	assert.Equal(t, config.YAML, format)
}

func TestSettings(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
cache:
  capacity: 256
metrics: true
tracing: true
eval:
  timeout: 250ms
log:
  level: WARN
  format: json
vars:
  one: 1
`))
	require.NoError(t, err)

	s, err := cfg.Settings()
	require.NoError(t, err)
	assert.Equal(t, 256, s.CacheCapacity)
	assert.True(t, s.Metrics)
	assert.True(t, s.Tracing)
	assert.Equal(t, slog.LevelWarn, s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, 250*time.Millisecond, s.EvalTimeout)
	assert.Equal(t, 1, s.Vars["one"])
}

func TestSettings_Defaults(t *testing.T) {
	s, err := config.New(nil).Settings()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings().LogLevel, s.LogLevel)
	assert.Zero(t, s.CacheCapacity)
	assert.Zero(t, s.EvalTimeout)
	assert.Empty(t, s.LogFormat)
	assert.Nil(t, s.Vars)
}

func TestSettings_Invalid(t *testing.T) {
	_, err := config.New(map[string]any{"log": map[string]any{"level": "loud"}}).Settings()
	assert.ErrorContains(t, err, "invalid log.level")

	_, err = config.New(map[string]any{"cache": map[string]any{"capacity": -1}}).Settings()
	assert.Error(t, err)

	_, err = config.New(map[string]any{"eval": map[string]any{"timeout": "-1s"}}).Settings()
	assert.ErrorContains(t, err, "eval.timeout")

	_, err = config.New(map[string]any{"log": map[string]any{"format": "xml"}}).Settings()
	assert.ErrorContains(t, err, "log.format")

	_, err = config.New(map[string]any{"vars": []any{1}}).Settings()
	assert.ErrorContains(t, err, "vars must be a mapping")
}

func TestSettings_TimeoutSeconds(t *testing.T) {
	s, err := config.New(map[string]any{"eval": map[string]any{"timeout": 2}}).Settings()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, s.EvalTimeout)
}
