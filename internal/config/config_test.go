package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ruminaider/citysearch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 1, cfg.MinLength)
	assert.Equal(t, 25, cfg.MaxSuggestions)
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	assert.True(t, cfg.Wrap)
	assert.False(t, cfg.HighlightFirst)
	assert.False(t, cfg.LocateEnabled)
	assert.Equal(t, 10, cfg.SelectZoom)
	assert.Equal(t, 12, cfg.LocateZoom)
	assert.Equal(t, config.LocateOff, cfg.Locate.Mode)
	assert.NoError(t, cfg.Validate())
}

func TestParseConfig(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		input := []byte(`placeholder: "Find a city"
data_url: https://example.com/data/us_states_with_cities.json
min_length: 2
max_suggestions: 10
debounce: 300ms
highlight_first: true
wrap: false
locate_enabled: true
select_zoom: 9
locate_zoom: 13
locate:
  mode: static
  latitude: 30.2672
  longitude: -97.7431
log_file: /tmp/citysearch.log
log_format: json
`)
		cfg, err := config.Parse(input)
		require.NoError(t, err)
		assert.Equal(t, "Find a city", cfg.Placeholder)
		assert.Equal(t, "https://example.com/data/us_states_with_cities.json", cfg.DataURL)
		assert.Equal(t, 2, cfg.MinLength)
		assert.Equal(t, 10, cfg.MaxSuggestions)
		assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
		assert.True(t, cfg.HighlightFirst)
		assert.False(t, cfg.Wrap)
		assert.True(t, cfg.LocateEnabled)
		assert.Equal(t, config.LocateStatic, cfg.Locate.Mode)
		assert.InDelta(t, 30.2672, cfg.Locate.Latitude, 1e-9)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		cfg, err := config.Parse([]byte("highlight_first: true\n"))
		require.NoError(t, err)
		assert.True(t, cfg.HighlightFirst)
		assert.Equal(t, 25, cfg.MaxSuggestions)
		assert.True(t, cfg.Wrap)
		assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	})

	t.Run("empty file", func(t *testing.T) {
		cfg, err := config.Parse(nil)
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := config.Parse([]byte(`{{{`))
		assert.Error(t, err)
	})
}

func TestParseConfig_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"max suggestions too large", "max_suggestions: 500\n", "max_suggestions"},
		{"max suggestions zero", "max_suggestions: 0\n", "max_suggestions"},
		{"negative min length", "min_length: -1\n", "min_length"},
		{"debounce too long", "debounce: 10s\n", "debounce"},
		{"bad locate mode", "locate:\n  mode: gps\n", "locate.mode"},
		{"latitude out of range", "locate:\n  mode: static\n  latitude: 120\n", "locate.latitude"},
		{"bad data url", "data_url: not a url\n", "data_url"},
		{"file and url", "data_file: cities.json\ndata_url: https://example.com/x.json\n", "data_file"},
		{"bad log format", "log_format: xml\n", "log_format"},
		{"zoom out of range", "select_zoom: 30\n", "select_zoom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMarshalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.HighlightFirst = true
	cfg.Debounce = 250 * time.Millisecond
	cfg.Locate = config.LocateConfig{Mode: config.LocateIP, URL: "https://ip.example.com/json"}

	data, err := config.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "debounce: 250ms")

	parsed, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		cfg := config.Default()
		cfg.LocateEnabled = true
		require.NoError(t, config.Save(path, cfg))

		loaded, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, loaded)
	})

	t.Run("save rejects invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		cfg := config.Default()
		cfg.MaxSuggestions = 0
		require.Error(t, config.Save(path, cfg))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestWidgetOptions(t *testing.T) {
	cfg := config.Default()
	cfg.HighlightFirst = true
	cfg.LocateEnabled = true
	opts := cfg.WidgetOptions()
	assert.True(t, opts.HighlightFirst)
	assert.True(t, opts.LocateEnabled)
	assert.True(t, opts.Wrap)
	assert.Equal(t, 25, opts.MaxSuggestions)
	assert.Equal(t, 10, opts.SelectZoom)
}
