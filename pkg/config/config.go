// Package config loads application configuration from a YAML file,
// environment variables, and built-in defaults, in that order of
// increasing precedence for env over file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ehollis/lingreader/pkg/paginate"
)

// Config is the full application configuration.
type Config struct {
	DBPath          string `mapstructure:"db_path"`
	SourceLang      string `mapstructure:"source_lang"`
	TargetLang      string `mapstructure:"target_lang"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`

	Ingest IngestConfig `mapstructure:"ingest"`
	Reader ReaderConfig `mapstructure:"reader"`
}

// IngestConfig tunes the translation pipeline.
type IngestConfig struct {
	InitialBatch int `mapstructure:"initial_batch"`
	BatchSize    int `mapstructure:"batch_size"`
	Workers      int `mapstructure:"workers"`
}

// ReaderConfig tunes the reading view and position persistence.
type ReaderConfig struct {
	FontSizePx       float64 `mapstructure:"font_size_px"`
	ViewportWidthPx  float64 `mapstructure:"viewport_width_px"`
	ViewportHeightPx float64 `mapstructure:"viewport_height_px"`
	SaveDebounceMs   int     `mapstructure:"save_debounce_ms"`

	AvgCharWidthRatio float64 `mapstructure:"avg_char_width_ratio"`
	MinLineChars      int     `mapstructure:"min_line_chars"`
	MaxLineChars      int     `mapstructure:"max_line_chars"`
	SafetyMarginLines int     `mapstructure:"safety_margin_lines"`
	RefineWindow      int     `mapstructure:"refine_window"`
}

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() *Config {
	t := paginate.DefaultTuning()
	return &Config{
		DBPath:     defaultDBPath(),
		SourceLang: "es",
		TargetLang: "en",
		Ingest: IngestConfig{
			InitialBatch: 400,
			BatchSize:    1000,
			Workers:      4,
		},
		Reader: ReaderConfig{
			FontSizePx:        18,
			ViewportWidthPx:   800,
			ViewportHeightPx:  600,
			SaveDebounceMs:    2000,
			AvgCharWidthRatio: t.AvgCharWidthRatio,
			MinLineChars:      t.MinLineChars,
			MaxLineChars:      t.MaxLineChars,
			SafetyMarginLines: t.SafetyMarginLines,
			RefineWindow:      t.RefineWindow,
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lingreader.db"
	}
	return filepath.Join(home, ".lingreader", "lingreader.db")
}

// Load reads configuration from cfgFile if given, otherwise from
// config.yaml in the working directory or ~/.lingreader.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("source_lang", defaults.SourceLang)
	v.SetDefault("target_lang", defaults.TargetLang)
	v.SetDefault("ingest.initial_batch", defaults.Ingest.InitialBatch)
	v.SetDefault("ingest.batch_size", defaults.Ingest.BatchSize)
	v.SetDefault("ingest.workers", defaults.Ingest.Workers)
	v.SetDefault("reader.font_size_px", defaults.Reader.FontSizePx)
	v.SetDefault("reader.viewport_width_px", defaults.Reader.ViewportWidthPx)
	v.SetDefault("reader.viewport_height_px", defaults.Reader.ViewportHeightPx)
	v.SetDefault("reader.save_debounce_ms", defaults.Reader.SaveDebounceMs)
	v.SetDefault("reader.avg_char_width_ratio", defaults.Reader.AvgCharWidthRatio)
	v.SetDefault("reader.min_line_chars", defaults.Reader.MinLineChars)
	v.SetDefault("reader.max_line_chars", defaults.Reader.MaxLineChars)
	v.SetDefault("reader.safety_margin_lines", defaults.Reader.SafetyMarginLines)
	v.SetDefault("reader.refine_window", defaults.Reader.RefineWindow)

	v.SetEnvPrefix("LINGREADER")
	v.AutomaticEnv()
	// The standard Anthropic env var works without the prefix.
	_ = v.BindEnv("anthropic_api_key", "LINGREADER_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lingreader")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing file is only acceptable when none was named.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SaveDebounce returns the debounce interval as a duration.
func (r ReaderConfig) SaveDebounce() time.Duration {
	return time.Duration(r.SaveDebounceMs) * time.Millisecond
}

// Tuning converts the reader settings to pagination tuning constants.
func (r ReaderConfig) Tuning() paginate.Tuning {
	return paginate.Tuning{
		AvgCharWidthRatio: r.AvgCharWidthRatio,
		MinLineChars:      r.MinLineChars,
		MaxLineChars:      r.MaxLineChars,
		SafetyMarginLines: r.SafetyMarginLines,
		RefineWindow:      r.RefineWindow,
	}
}

// Metrics builds pagination metrics from the reader settings and a
// per-document font size. Zero fontSize falls back to the configured one.
func (r ReaderConfig) Metrics(fontSize float64) paginate.Metrics {
	if fontSize <= 0 {
		fontSize = r.FontSizePx
	}
	return paginate.Metrics{
		ViewportWidthPx:  r.ViewportWidthPx,
		ViewportHeightPx: r.ViewportHeightPx,
		FontSizePx:       fontSize,
	}
}
