// Package config loads gateway settings from flags, environment variables
// and an optional YAML overlay, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenHost = "0.0.0.0"
	defaultListenPort = 2000
	defaultWorkers    = 10
	defaultCacheTTL   = 300 * time.Second
)

// Config holds every tunable named in spec.md §6.
type Config struct {
	LatraAPIURL   string  `yaml:"latra_api_url"`
	LatraAPIToken string  `yaml:"latra_api_token"`
	ListenHost    string  `yaml:"listen_host"`
	ListenPort    int     `yaml:"listen_port"`
	Workers       int     `yaml:"workers"`
	CacheTTL      time.Duration
	FallbackLat   float64 `yaml:"fallback_lat"`
	FallbackLon   float64 `yaml:"fallback_lon"`
	StorePath     string  `yaml:"store_path"`
}

// fileOverlay mirrors Config but lets fields be optional in YAML.
type fileOverlay struct {
	LatraAPIURL     string   `yaml:"latra_api_url"`
	LatraAPIToken   string   `yaml:"latra_api_token"`
	ListenHost      string   `yaml:"listen_host"`
	ListenPort      *int     `yaml:"listen_port"`
	Workers         *int     `yaml:"workers"`
	CacheTTLSeconds *int     `yaml:"cache_ttl_seconds"`
	FallbackLat     *float64 `yaml:"fallback_lat"`
	FallbackLon     *float64 `yaml:"fallback_lon"`
	StorePath       string   `yaml:"store_path"`
}

// Load resolves configuration with flags > env > file > built-in defaults.
// args is typically os.Args[1:]; pass nil to read only env and defaults.
func Load(args []string) (*Config, error) {
	cfg := &Config{
		ListenHost: defaultListenHost,
		ListenPort: defaultListenPort,
		Workers:    defaultWorkers,
		CacheTTL:   defaultCacheTTL,
		StorePath:  "latra_gateway.db",
	}

	// File must land before env so the declared precedence (flags > env >
	// file) holds; --config itself is pre-scanned since the main flag set
	// hasn't parsed args yet at this point.
	if path := scanConfigFlag(args); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	fs := pflag.NewFlagSet("gateway", pflag.ContinueOnError)
	fs.String("config", "", "optional YAML configuration file (applied before flags are parsed)")
	latraURL := fs.String("latra-url", cfg.LatraAPIURL, "LATRA upstream API URL")
	latraToken := fs.String("latra-token", cfg.LatraAPIToken, "LATRA upstream API basic-auth token")
	listenHost := fs.String("listen-host", cfg.ListenHost, "TCP listen host")
	listenPort := fs.Int("listen-port", cfg.ListenPort, "TCP listen port")
	workers := fs.Int("workers", cfg.Workers, "ingestion worker pool size")
	cacheTTL := fs.Duration("cache-ttl", cfg.CacheTTL, "vehicle directory cache TTL")
	fallbackLat := fs.Float64("fallback-lat", cfg.FallbackLat, "fallback latitude for non-GPS activities")
	fallbackLon := fs.Float64("fallback-lon", cfg.FallbackLon, "fallback longitude for non-GPS activities")
	storePath := fs.String("store-path", cfg.StorePath, "bbolt database path for vehicles and audit log")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// Flags win over everything, but only when the user actually set them —
	// otherwise a flag default would stomp the env/file value above it.
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "latra-url":
			cfg.LatraAPIURL = *latraURL
		case "latra-token":
			cfg.LatraAPIToken = *latraToken
		case "listen-host":
			cfg.ListenHost = *listenHost
		case "listen-port":
			cfg.ListenPort = *listenPort
		case "workers":
			cfg.Workers = *workers
		case "cache-ttl":
			cfg.CacheTTL = *cacheTTL
		case "fallback-lat":
			cfg.FallbackLat = *fallbackLat
		case "fallback-lon":
			cfg.FallbackLon = *fallbackLon
		case "store-path":
			cfg.StorePath = *storePath
		}
	})

	return cfg, cfg.validate()
}

// scanConfigFlag extracts --config's value (if any) without consuming args,
// so the YAML overlay can be applied before env, ahead of the full flag parse.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "--config" || a == "-config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		}
	}
	return ""
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LATRA_API_URL"); v != "" {
		cfg.LatraAPIURL = v
	}
	if v := os.Getenv("LATRA_API_TOKEN"); v != "" {
		cfg.LatraAPIToken = v
	}
	if v := os.Getenv("LISTEN_HOST"); v != "" {
		cfg.ListenHost = v
	}
	if v := os.Getenv("LISTEN_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ListenPort = n
		}
	}
	if v := os.Getenv("WORKER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTL = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("FALLBACK_LAT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FallbackLat = f
		}
	}
	if v := os.Getenv("FALLBACK_LON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FallbackLon = f
		}
	}
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	var overlay fileOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if overlay.LatraAPIURL != "" {
		cfg.LatraAPIURL = overlay.LatraAPIURL
	}
	if overlay.LatraAPIToken != "" {
		cfg.LatraAPIToken = overlay.LatraAPIToken
	}
	if overlay.ListenHost != "" {
		cfg.ListenHost = overlay.ListenHost
	}
	if overlay.ListenPort != nil {
		cfg.ListenPort = *overlay.ListenPort
	}
	if overlay.Workers != nil {
		cfg.Workers = *overlay.Workers
	}
	if overlay.CacheTTLSeconds != nil {
		cfg.CacheTTL = time.Duration(*overlay.CacheTTLSeconds) * time.Second
	}
	if overlay.FallbackLat != nil {
		cfg.FallbackLat = *overlay.FallbackLat
	}
	if overlay.FallbackLon != nil {
		cfg.FallbackLon = *overlay.FallbackLon
	}
	if overlay.StorePath != "" {
		cfg.StorePath = overlay.StorePath
	}
	return nil
}

func (c *Config) validate() error {
	if c.LatraAPIURL == "" {
		return fmt.Errorf("LATRA_API_URL (or --latra-url) is required")
	}
	if c.LatraAPIToken == "" {
		return fmt.Errorf("LATRA_API_TOKEN (or --latra-token) is required")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("worker pool size must be positive, got %d", c.Workers)
	}
	// Open question (b) in spec.md §9: the fallback point has no built-in
	// default on purpose, forcing an explicit operator choice.
	if c.FallbackLat == 0 && c.FallbackLon == 0 {
		return fmt.Errorf("fallback-lat/fallback-lon must be set explicitly (no default fallback point)")
	}
	return nil
}
