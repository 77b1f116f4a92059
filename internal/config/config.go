// Package config loads application settings from environment variables.
//
// A .env file in the working directory is read first when present. Every
// variable is optional:
//
//   - DATA_PATH: incident dataset (default: data/polio_data.json)
//   - MAX_MARKER_SIZE: radius in pixels of the largest marker (default: 200)
//   - YEAR_POLICY: strict or union (default: strict)
//   - TILE_URL: tile template with {s} {z} {x} {y} (default: OpenStreetMap)
//   - TILE_SUBDOMAINS: comma separated values for {s} (default: a,b,c)
//   - TILES_ENABLED: download base map tiles (default: true)
//   - MAP_ZOOM: initial zoom level, 0 to 3 (default: 1)
//   - MAP_CENTER_LAT, MAP_CENTER_LNG: initial map center (default: 0, 0)
//   - WINDOW_WIDTH, WINDOW_HEIGHT: initial window size (default: 1100x760)
//   - LOG_LEVEL: debug, info, warn, error (default: info, debug when DEBUG=1)
//   - LOG_FORMAT: console or json (default: console)
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"polio-eradicator/internal/logger"
)

const (
	YearPolicyStrict = "strict"
	YearPolicyUnion  = "union"

	DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
)

// ErrInvalid wraps every rejected setting.
var ErrInvalid = errors.New("invalid configuration")

var validate = newValidator()

// newValidator reports fields by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

type Config struct {
	DataPath      string  `env:"DATA_PATH" validate:"required"`
	MaxMarkerSize float64 `env:"MAX_MARKER_SIZE" validate:"gt=0"`
	YearPolicy    string  `env:"YEAR_POLICY" validate:"oneof=strict union"`

	TileURL        string   `env:"TILE_URL" validate:"required"`
	TileSubdomains []string `env:"TILE_SUBDOMAINS"`
	TilesEnabled   bool     `env:"TILES_ENABLED"`
	Zoom           int      `env:"MAP_ZOOM" validate:"min=0,max=3"`
	CenterLat      float64  `env:"MAP_CENTER_LAT" validate:"gte=-90,lte=90"`
	CenterLng      float64  `env:"MAP_CENTER_LNG" validate:"gte=-180,lte=180"`

	WindowWidth  float32 `env:"WINDOW_WIDTH" validate:"gte=400"`
	WindowHeight float32 `env:"WINDOW_HEIGHT" validate:"gte=300"`

	LogLevel  logger.LogLevel `env:"LOG_LEVEL"`
	LogFormat string          `env:"LOG_FORMAT" validate:"oneof=console json"`
}

// Default returns the settings the application runs with when nothing is set.
func Default() Config {
	return Config{
		DataPath:       "data/polio_data.json",
		MaxMarkerSize:  200,
		YearPolicy:     YearPolicyStrict,
		TileURL:        DefaultTileURL,
		TileSubdomains: []string{"a", "b", "c"},
		TilesEnabled:   true,
		Zoom:           1,
		WindowWidth:    1100,
		WindowHeight:   760,
		LogLevel:       logger.InfoLevel,
		LogFormat:      "console",
	}
}

// Load reads .env (if any) and the process environment on top of Default.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function so callers can supply
// their own environment.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var err error

	if v, ok := lookup("DATA_PATH"); ok && v != "" {
		cfg.DataPath = v
	}
	if cfg.MaxMarkerSize, err = getFloat(lookup, "MAX_MARKER_SIZE", cfg.MaxMarkerSize); err != nil {
		return cfg, err
	}

	if v, ok := lookup("YEAR_POLICY"); ok && v != "" {
		cfg.YearPolicy = strings.ToLower(strings.TrimSpace(v))
	}

	if v, ok := lookup("TILE_URL"); ok && v != "" {
		cfg.TileURL = v
	}
	if v, ok := lookup("TILE_SUBDOMAINS"); ok {
		cfg.TileSubdomains = splitList(v)
	}
	if cfg.TilesEnabled, err = getBool(lookup, "TILES_ENABLED", cfg.TilesEnabled); err != nil {
		return cfg, err
	}

	if cfg.Zoom, err = getInt(lookup, "MAP_ZOOM", cfg.Zoom); err != nil {
		return cfg, err
	}
	if cfg.CenterLat, err = getFloat(lookup, "MAP_CENTER_LAT", cfg.CenterLat); err != nil {
		return cfg, err
	}
	if cfg.CenterLng, err = getFloat(lookup, "MAP_CENTER_LNG", cfg.CenterLng); err != nil {
		return cfg, err
	}

	width, err := getInt(lookup, "WINDOW_WIDTH", int(cfg.WindowWidth))
	if err != nil {
		return cfg, err
	}
	height, err := getInt(lookup, "WINDOW_HEIGHT", int(cfg.WindowHeight))
	if err != nil {
		return cfg, err
	}
	cfg.WindowWidth = float32(max(width, 400))
	cfg.WindowHeight = float32(max(height, 300))

	levelName, _ := lookup("LOG_LEVEL")
	if levelName == "" {
		if debug, _ := lookup("DEBUG"); debug == "1" {
			levelName = "debug"
		}
	}
	if cfg.LogLevel, err = logger.ParseLevel(levelName); err != nil {
		return cfg, err
	}

	if v, ok := lookup("LOG_FORMAT"); ok && v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}

	return cfg, cfg.Validate()
}

// Validate checks ranges and allowed values. The first failing setting is
// reported by its environment variable name.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		return fmt.Errorf("%w: %s=%v fails %s", ErrInvalid, fe.Field(), fe.Value(), rule)
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// NewLogger builds the logger described by the config.
func (c Config) NewLogger() *logger.ZerologAdapter {
	if c.LogFormat == "json" {
		return logger.NewJSONLogger(c.LogLevel)
	}
	return logger.NewConsoleLogger(c.LogLevel)
}

func getInt(lookup func(string) (string, bool), key string, def int) (int, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(lookup func(string) (string, bool), key string, def float64) (float64, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getBool(lookup func(string) (string, bool), key string, def bool) (bool, error) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
