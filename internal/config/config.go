package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"aim-crypto/go-envelope/pkg/models"

	"gopkg.in/yaml.v3"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"

	DefaultMetricsNamespace = "envelope"
)

type Config struct {
	Stretch models.StretchParams
	Log     LogConfig
	Metrics MetricsConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

type FileConfig struct {
	Stretch models.StretchParams `yaml:"stretch"`
	Log     FileLogConfig        `yaml:"log"`
	Metrics FileMetricsConfig    `yaml:"metrics"`
}

type FileLogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type FileMetricsConfig struct {
	Enabled   *bool  `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

func Default() Config {
	return Config{
		Stretch: models.DefaultStretchParams(),
		Log:     LogConfig{Level: "info", Format: LogFormatText},
		Metrics: MetricsConfig{Namespace: DefaultMetricsNamespace},
	}
}

// LoadFromPath reads configPath, or the first default candidate that exists
// when configPath is empty. A missing default file is not an error.
func LoadFromPath(configPath string) (Config, error) {
	cfg := Default()

	candidates := []string{configPath}
	if configPath == "" {
		candidates = []string{"configs/envelope.yaml", "envelope.yaml"}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if configPath != "" {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			continue
		}

		var parsed FileConfig
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		Merge(&cfg, parsed)
		break
	}

	ApplyEnvOverrides(&cfg)
	return cfg, nil
}

func Merge(dst *Config, src FileConfig) {
	s := src.Stretch
	if s.Algorithm != "" {
		dst.Stretch.Algorithm = strings.ToLower(strings.TrimSpace(s.Algorithm))
	}
	if s.ScryptN != 0 {
		dst.Stretch.ScryptN = s.ScryptN
	}
	if s.ScryptR != 0 {
		dst.Stretch.ScryptR = s.ScryptR
	}
	if s.ScryptP != 0 {
		dst.Stretch.ScryptP = s.ScryptP
	}
	if s.Argon2Time != 0 {
		dst.Stretch.Argon2Time = s.Argon2Time
	}
	if s.Argon2MemoryKB != 0 {
		dst.Stretch.Argon2MemoryKB = s.Argon2MemoryKB
	}
	if s.Argon2Threads != 0 {
		dst.Stretch.Argon2Threads = s.Argon2Threads
	}
	if src.Log.Level != "" {
		dst.Log.Level = src.Log.Level
	}
	if src.Log.Format != "" {
		dst.Log.Format = src.Log.Format
	}
	if src.Metrics.Enabled != nil {
		dst.Metrics.Enabled = *src.Metrics.Enabled
	}
	if src.Metrics.Namespace != "" {
		dst.Metrics.Namespace = src.Metrics.Namespace
	}
}

func ApplyEnvOverrides(cfg *Config) {
	if algorithm := strings.TrimSpace(os.Getenv("ENVELOPE_STRETCH_ALGORITHM")); algorithm != "" {
		cfg.Stretch.Algorithm = strings.ToLower(algorithm)
	}
	if level := strings.TrimSpace(os.Getenv("ENVELOPE_LOG_LEVEL")); level != "" {
		cfg.Log.Level = level
	}

	raw := strings.TrimSpace(os.Getenv("ENVELOPE_METRICS_ENABLED"))
	if raw == "" {
		return
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return
	}
	cfg.Metrics.Enabled = v
}

// SlogLevel parses Level, falling back to info for unknown values.
func (c LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c LogConfig) Handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Format, LogFormatJSON) {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
