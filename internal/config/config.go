package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/arso-exporter/internal/common"
)

const (
	EnvDev  = "dev"
	EnvProd = "prod"

	defaultSourceURL = "https://meteo.arso.gov.si/uploads/probase/www/observ/surface/text/sl/observationAms_si_latest.html"
)

var validate = validator.New()

type AppConfig struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level
	Port     string `validate:"required,numeric"`

	// SourceURL is the observation page to scrape.
	SourceURL string `validate:"required,url"`

	// RefreshInterval controls how often the page is fetched.
	RefreshInterval time.Duration `validate:"gt=0"`

	// Outbound fetch settings.
	FetchTimeout time.Duration `validate:"gt=0"`
	FetchRetries int           `validate:"gte=0,lte=10"`
	CycleTimeout time.Duration `validate:"gt=0"`

	// Stations is the watchlist of station names to publish.
	Stations []string `validate:"required,min=1,dive,required"`

	// PruneMissingStations drops the series of watched stations that
	// disappear from the page.
	PruneMissingStations bool

	SettingsFile string
}

// Settings is the on-disk settings file.
type Settings struct {
	Cities []string `yaml:"cities"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment and the
// settings file it points to.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.AppEnv = strings.TrimSpace(getenvDefault("APP_ENV", EnvDev))
	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level
	cfg.Port = getenvDefault("PORT", "9336")
	cfg.SourceURL = getenvDefault("SOURCE_URL", defaultSourceURL)

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.CycleTimeout, err = getenvDuration("CYCLE_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	cfg.FetchRetries = getenvInt("FETCH_RETRIES", 3)
	cfg.PruneMissingStations = getenvBool("PRUNE_MISSING_STATIONS", true)

	cfg.SettingsFile = getenvDefault("SETTINGS_FILE", "settings.yaml")
	stations, err := loadStations(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}
	cfg.Stations = stations

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadStations returns the watchlist. ARSO_STATIONS, when set, takes
// precedence over the settings file.
func loadStations(settingsFile string) ([]string, error) {
	if env := os.Getenv("ARSO_STATIONS"); env != "" {
		return common.SplitList(env), nil
	}

	settings, err := LoadSettings(settingsFile)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, c := range settings.Cities {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// LoadSettings parses a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return &s, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
