// Package config loads lsfstream settings from a TOML file and LSF_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ayusman/lsfstream/internal/gesture"
)

// Config holds application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Recognizer RecognizerConfig `mapstructure:"recognizer"`
	Detector   DetectorConfig   `mapstructure:"detector"`
	Store      StoreConfig      `mapstructure:"store"`
	Log        LogConfig        `mapstructure:"log"`
	Client     ClientConfig     `mapstructure:"client"`
}

// ServerConfig holds the listener and websocket settings.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	StaticDir       string        `mapstructure:"static_dir"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	InboundQueue    int           `mapstructure:"inbound_queue"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RecognizerConfig holds classification and phrase matching settings.
type RecognizerConfig struct {
	HistorySize        int    `mapstructure:"history_size"`
	MatchMode          string `mapstructure:"match_mode"`
	ExtendedVocabulary bool   `mapstructure:"extended_vocabulary"`
	ClearOnPhrase      bool   `mapstructure:"clear_on_phrase"`
	BuiltinPhrases     bool   `mapstructure:"builtin_phrases"`
}

// DetectorConfig holds landmark estimation settings.
type DetectorConfig struct {
	Workers               int           `mapstructure:"workers"`
	MaxHands              int           `mapstructure:"max_hands"`
	MinConfidence         float64       `mapstructure:"min_confidence"`
	MinTrackingConfidence float64       `mapstructure:"min_tracking_confidence"`
	Script                string        `mapstructure:"script"`
	Python                string        `mapstructure:"python"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	Mock                  bool          `mapstructure:"mock"`
}

// StoreConfig holds sqlite settings. An empty path disables stored phrases.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClientConfig holds settings for the lsfcam camera client.
type ClientConfig struct {
	ServerURL       string        `mapstructure:"server_url"`
	CameraID        int           `mapstructure:"camera_id"`
	MotionThreshold float64       `mapstructure:"motion_threshold"`
	IdleFPS         int           `mapstructure:"idle_fps"`
	ActiveFPS       int           `mapstructure:"active_fps"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	JPEGQuality     int           `mapstructure:"jpeg_quality"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8765")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.read_limit", 8<<20)
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "5s")
	v.SetDefault("server.ping_interval", "20s")
	v.SetDefault("server.inbound_queue", 8)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("recognizer.history_size", gesture.DefaultHistorySize)
	v.SetDefault("recognizer.match_mode", string(gesture.MatchTokens))
	v.SetDefault("recognizer.extended_vocabulary", false)
	v.SetDefault("recognizer.clear_on_phrase", false)
	v.SetDefault("recognizer.builtin_phrases", true)

	v.SetDefault("detector.workers", 2)
	v.SetDefault("detector.max_hands", 1)
	v.SetDefault("detector.min_confidence", 0.5)
	v.SetDefault("detector.min_tracking_confidence", 0.5)
	v.SetDefault("detector.script", "")
	v.SetDefault("detector.python", "")
	v.SetDefault("detector.idle_timeout", "30s")
	v.SetDefault("detector.mock", false)

	v.SetDefault("store.path", filepath.Join(os.Getenv("HOME"), ".lsfstream", "lsfstream.db"))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("client.server_url", "ws://localhost:8765/")
	v.SetDefault("client.camera_id", 0)
	v.SetDefault("client.motion_threshold", 1.0)
	v.SetDefault("client.idle_fps", 5)
	v.SetDefault("client.active_fps", 15)
	v.SetDefault("client.idle_timeout", "2s")
	v.SetDefault("client.jpeg_quality", 80)
}

// Load reads configuration from file and env. Env var overrides use prefix
// LSF_, e.g. LSF_SERVER_ADDR. LSF_CONFIG names the file; otherwise
// ~/.lsfstream/config.toml is read when present.
func Load() (Config, error) {
	return load(os.Getenv("LSF_CONFIG"))
}

// LoadFile reads configuration from path and env.
func LoadFile(path string) (Config, error) {
	return load(path)
}

func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".lsfstream"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LSF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file must exist; the default location is optional.
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if _, err := gesture.ParseMatchMode(c.Recognizer.MatchMode); err != nil {
		return fmt.Errorf("recognizer.match_mode: %w", err)
	}
	if c.Recognizer.HistorySize < 1 {
		return fmt.Errorf("recognizer.history_size must be >= 1, got %d", c.Recognizer.HistorySize)
	}
	if c.Detector.Workers < 1 {
		return fmt.Errorf("detector.workers must be >= 1, got %d", c.Detector.Workers)
	}
	if c.Detector.MaxHands < 1 {
		return fmt.Errorf("detector.max_hands must be >= 1, got %d", c.Detector.MaxHands)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the process logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}
