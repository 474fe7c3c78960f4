package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aretw0/framecast/pkg/adapters/codec"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/registry"
	"github.com/aretw0/framecast/pkg/scheduler"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. FRAMECAST_SERVER_ADDR.
const EnvPrefix = "framecast"

// Config is the process configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Render RenderConfig `yaml:"render"`
	Redis  RedisConfig  `yaml:"redis"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

type RenderConfig struct {
	Project        string        `yaml:"project" envconfig:"PROJECT"`
	AssetDir       string        `yaml:"asset_dir" envconfig:"ASSET_DIR"`
	OutputDir      string        `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	Format         string        `yaml:"format" envconfig:"FORMAT"`
	Operator       string        `yaml:"operator" envconfig:"OPERATOR"`
	Mode           string        `yaml:"mode" envconfig:"MODE"`
	Interval       time.Duration `yaml:"interval" envconfig:"INTERVAL"`
	AssetCache     int           `yaml:"asset_cache" envconfig:"ASSET_CACHE"`
	FallbackWidth  int           `yaml:"fallback_width" envconfig:"FALLBACK_WIDTH"`
	FallbackHeight int           `yaml:"fallback_height" envconfig:"FALLBACK_HEIGHT"`
	FallbackColor  []float32     `yaml:"fallback_color" envconfig:"FALLBACK_COLOR"`
}

// RedisConfig enables the Redis session directory when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr" envconfig:"ADDR"`
	Password string        `yaml:"password" envconfig:"PASSWORD"`
	DB       int           `yaml:"db" envconfig:"DB"`
	Prefix   string        `yaml:"prefix" envconfig:"PREFIX"`
	TTL      time.Duration `yaml:"ttl" envconfig:"TTL"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Render: RenderConfig{
			Project:        "project.yaml",
			AssetDir:       "assets",
			OutputDir:      codec.DefaultOutputDir,
			Format:         string(codec.FormatPNG),
			Operator:       registry.OperatorOver,
			Mode:           string(domain.ModePaced),
			Interval:       scheduler.DefaultInterval,
			AssetCache:     64,
			FallbackWidth:  scheduler.DefaultFallbackWidth,
			FallbackHeight: scheduler.DefaultFallbackHeight,
			FallbackColor:  []float32{0, 0, 0, 1},
		},
		Redis: RedisConfig{
			Prefix: "framecast:session:",
			TTL:    24 * time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration in layers: defaults, the YAML file at path
// (skipped when path is empty), variables from envFiles (".env" when none
// are given; missing files are ignored) and finally FRAMECAST_* variables.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error
	r := c.Render

	if r.Interval <= 0 {
		errs = append(errs, fmt.Errorf("render.interval must be positive, got %s", r.Interval))
	}
	if r.FallbackWidth <= 0 || r.FallbackHeight <= 0 {
		errs = append(errs, fmt.Errorf("render.fallback size must be positive, got %dx%d", r.FallbackWidth, r.FallbackHeight))
	}
	if len(r.FallbackColor) != 4 {
		errs = append(errs, fmt.Errorf("render.fallback_color needs 4 samples (RGBA), got %d", len(r.FallbackColor)))
	}
	for _, v := range r.FallbackColor {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("render.fallback_color samples must be in [0,1], got %v", v))
			break
		}
	}
	if _, err := domain.ParseMode(r.Mode); err != nil {
		errs = append(errs, fmt.Errorf("render.mode: %w", err))
	}
	if _, err := codec.ParseFormat(r.Format); err != nil {
		errs = append(errs, fmt.Errorf("render.format: %w", err))
	}
	if _, err := registry.Default().Lookup(r.Operator); err != nil {
		errs = append(errs, fmt.Errorf("render.operator: %w", err))
	}
	if r.AssetCache < 0 {
		errs = append(errs, fmt.Errorf("render.asset_cache must not be negative"))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Redis.TTL < 0 {
		errs = append(errs, fmt.Errorf("redis.ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// DeliveryMode returns the parsed render mode. Call after Validate.
func (r RenderConfig) DeliveryMode() domain.DeliveryMode {
	mode, _ := domain.ParseMode(r.Mode)
	return mode
}

// Fallback returns the placeholder frame described by the config.
func (r RenderConfig) Fallback() *domain.Buffer {
	c := r.FallbackColor
	if len(c) != 4 {
		return scheduler.NewFallback(r.FallbackWidth, r.FallbackHeight, 0, 0, 0, 1)
	}
	return scheduler.NewFallback(r.FallbackWidth, r.FallbackHeight, c[0], c[1], c[2], c[3])
}
