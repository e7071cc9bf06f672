// Package config loads vecview settings: defaults, then an optional YAML
// file, then VECVIEW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/vecview/internal/core/gesture"
	"github.com/zeusync/vecview/internal/core/module"
	"github.com/zeusync/vecview/internal/core/observability/log"
	"github.com/zeusync/vecview/internal/core/platform"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Assets    AssetsConfig    `yaml:"assets"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Gesture   GestureConfig   `yaml:"gesture"`
	Desktop   DesktopConfig   `yaml:"desktop"`
	LogLevel  string          `yaml:"log_level" env:"VECVIEW_LOG_LEVEL"`
}

type ServerConfig struct {
	ListenAddr        string        `yaml:"listen_addr" env:"VECVIEW_LISTEN_ADDR"`
	MaxSessions       int           `yaml:"max_sessions" env:"VECVIEW_MAX_SESSIONS"`
	MaxMessageSize    int64         `yaml:"max_message_size" env:"VECVIEW_MAX_MESSAGE_SIZE"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"VECVIEW_READ_HEADER_TIMEOUT"`
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout" env:"VECVIEW_HANDSHAKE_TIMEOUT"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" env:"VECVIEW_IDLE_TIMEOUT"`
	WriteTimeout      time.Duration `yaml:"write_timeout" env:"VECVIEW_WRITE_TIMEOUT"`
	BootstrapTimeout  time.Duration `yaml:"bootstrap_timeout" env:"VECVIEW_BOOTSTRAP_TIMEOUT"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" env:"VECVIEW_SHUTDOWN_TIMEOUT"`
}

type AssetsConfig struct {
	Dir          string `yaml:"dir" env:"VECVIEW_ASSETS_DIR"`
	DefaultImage string `yaml:"default_image" env:"VECVIEW_DEFAULT_IMAGE"`
	Isolated     bool   `yaml:"isolated" env:"VECVIEW_ISOLATED"`
}

type BootstrapConfig struct {
	Variants            []module.Variant `yaml:"variants"`
	ChromiumWheelFactor float64          `yaml:"chromium_wheel_factor" env:"VECVIEW_CHROMIUM_WHEEL_FACTOR"`
	DefaultWheelFactor  float64          `yaml:"default_wheel_factor" env:"VECVIEW_DEFAULT_WHEEL_FACTOR"`
}

type GestureConfig struct {
	NoiseThreshold float64 `yaml:"noise_threshold" env:"VECVIEW_NOISE_THRESHOLD"`
}

type DesktopConfig struct {
	Width  int    `yaml:"width" env:"VECVIEW_DESKTOP_WIDTH"`
	Height int    `yaml:"height" env:"VECVIEW_DESKTOP_HEIGHT"`
	Title  string `yaml:"title" env:"VECVIEW_DESKTOP_TITLE"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	settings := platform.DefaultSettings()
	return Config{
		Server: ServerConfig{
			ListenAddr:        "127.0.0.1:8080",
			MaxSessions:       1000,
			MaxMessageSize:    1024 * 1024, // 1MB
			ReadHeaderTimeout: 5 * time.Second,
			HandshakeTimeout:  10 * time.Second,
			IdleTimeout:       5 * time.Minute,
			WriteTimeout:      10 * time.Second,
			BootstrapTimeout:  30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Assets: AssetsConfig{
			Dir:          "assets",
			DefaultImage: "instructions.vectorimage",
			Isolated:     true,
		},
		Bootstrap: BootstrapConfig{
			Variants:            module.DefaultVariants(),
			ChromiumWheelFactor: settings.ChromiumWheelFactor,
			DefaultWheelFactor:  settings.DefaultWheelFactor,
		},
		Gesture: GestureConfig{
			NoiseThreshold: gesture.DefaultNoiseThreshold,
		},
		Desktop: DesktopConfig{
			Width:  1024,
			Height: 768,
			Title:  "vecview",
		},
		LogLevel: log.LevelInfo.String(),
	}
}

// Load reads path (if not empty) over the defaults and then applies the
// environment.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err = yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Server.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("listen_addr: %w", ErrMissingValue))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("max_sessions: %w", ErrOutOfRange))
	}
	if c.Server.MaxMessageSize <= 0 {
		errs = append(errs, fmt.Errorf("max_message_size: %w", ErrOutOfRange))
	}
	if c.Assets.Dir == "" {
		errs = append(errs, fmt.Errorf("assets.dir: %w", ErrMissingValue))
	}
	if len(c.Bootstrap.Variants) == 0 {
		errs = append(errs, fmt.Errorf("bootstrap.variants: %w", ErrMissingValue))
	} else if err := module.Validate(c.Bootstrap.Variants); err != nil {
		errs = append(errs, fmt.Errorf("bootstrap.variants: %w", err))
	}
	if c.Bootstrap.ChromiumWheelFactor <= 0 || c.Bootstrap.DefaultWheelFactor <= 0 {
		errs = append(errs, fmt.Errorf("wheel factor: %w", ErrOutOfRange))
	}
	if c.Gesture.NoiseThreshold <= 0 {
		errs = append(errs, fmt.Errorf("noise_threshold: %w", ErrOutOfRange))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// PlatformSettings converts the bootstrap section for platform.Resolve.
func (c Config) PlatformSettings() platform.Settings {
	return platform.Settings{
		Variants:            module.Names(c.Bootstrap.Variants),
		ChromiumWheelFactor: c.Bootstrap.ChromiumWheelFactor,
		DefaultWheelFactor:  c.Bootstrap.DefaultWheelFactor,
	}
}

// Level returns the configured log level; unknown names mean info.
func (c Config) Level() log.Level {
	return log.ParseLevel(c.LogLevel)
}
