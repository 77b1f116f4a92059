package config

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polio-eradicator/internal/logger"
)

func envOf(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 200.0, cfg.MaxMarkerSize)
	assert.Equal(t, YearPolicyStrict, cfg.YearPolicy)
	assert.Equal(t, 1, cfg.Zoom)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"DATA_PATH":       "/tmp/polio.json",
		"MAX_MARKER_SIZE": "120.5",
		"YEAR_POLICY":     "Union",
		"TILE_SUBDOMAINS": " x, ,y ",
		"TILES_ENABLED":   "false",
		"MAP_ZOOM":        "3",
		"MAP_CENTER_LAT":  "12.5",
		"MAP_CENTER_LNG":  "-40",
		"WINDOW_WIDTH":    "100",
		"DEBUG":           "1",
		"LOG_FORMAT":      "JSON",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/polio.json", cfg.DataPath)
	assert.Equal(t, 120.5, cfg.MaxMarkerSize)
	assert.Equal(t, YearPolicyUnion, cfg.YearPolicy)
	assert.Equal(t, []string{"x", "y"}, cfg.TileSubdomains)
	assert.False(t, cfg.TilesEnabled)
	assert.Equal(t, 3, cfg.Zoom)
	assert.Equal(t, 12.5, cfg.CenterLat)
	assert.Equal(t, -40.0, cfg.CenterLng)
	assert.Equal(t, float32(400), cfg.WindowWidth)
	assert.Equal(t, logger.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFromEnvRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"non numeric size":  {"MAX_MARKER_SIZE": "big"},
		"zero size":         {"MAX_MARKER_SIZE": "0"},
		"unknown policy":    {"YEAR_POLICY": "first"},
		"bad bool":          {"TILES_ENABLED": "maybe"},
		"zoom out of range": {"MAP_ZOOM": "19"},
		"latitude range":    {"MAP_CENTER_LAT": "95"},
		"bad level":         {"LOG_LEVEL": "loud"},
		"bad format":        {"LOG_FORMAT": "xml"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envOf(env))
			assert.Error(t, err)
		})
	}
}

func TestFromEnvValidationNamesVariable(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"zero size", map[string]string{"MAX_MARKER_SIZE": "0"}, "MAX_MARKER_SIZE=0 fails gt=0"},
		{"unknown policy", map[string]string{"YEAR_POLICY": "first"}, "YEAR_POLICY=first fails oneof=strict union"},
		{"negative zoom", map[string]string{"MAP_ZOOM": "-1"}, "MAP_ZOOM=-1 fails min=0"},
		{"zoom too deep", map[string]string{"MAP_ZOOM": "4"}, "MAP_ZOOM=4 fails max=3"},
		{"longitude range", map[string]string{"MAP_CENTER_LNG": "-181"}, "MAP_CENTER_LNG=-181 fails gte=-180"},
		{"bad format", map[string]string{"LOG_FORMAT": "xml"}, "LOG_FORMAT=xml fails oneof=console json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.env))
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateRejectsNaNCenter(t *testing.T) {
	cfg := Default()
	cfg.CenterLat = math.NaN()
	assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
	assert.NoError(t, Default().Validate())
}
