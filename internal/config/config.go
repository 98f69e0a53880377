// Package config loads application configuration from config.yaml and
// ELEVATION_* environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Boundary  BoundaryConfig  `yaml:"boundary" mapstructure:"boundary"`
	Terrain   TerrainConfig   `yaml:"terrain" mapstructure:"terrain"`
	PopCenter PopCenterConfig `yaml:"popcenter" mapstructure:"popcenter"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// BoundaryConfig configures cartographic boundary downloads.
type BoundaryConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Year       int    `yaml:"year" mapstructure:"year"`
	Resolution string `yaml:"resolution" mapstructure:"resolution"`
	TempDir    string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// TerrainConfig configures terrain tile acquisition.
type TerrainConfig struct {
	TileURL     string `yaml:"tile_url" mapstructure:"tile_url"`
	Zoom        int    `yaml:"zoom" mapstructure:"zoom"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// PopCenterConfig configures the population-center table locations.
// UseMirror enables the census FTP mirror as a fallback transport.
type PopCenterConfig struct {
	CountyURL string `yaml:"county_url" mapstructure:"county_url"`
	TractURL  string `yaml:"tract_url" mapstructure:"tract_url"`
	UseMirror bool   `yaml:"use_mirror" mapstructure:"use_mirror"`
}

// FetchConfig configures the shared HTTP fetcher.
type FetchConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
}

// OutputConfig configures where command output lands.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"` // csv | xlsx
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ELEVATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("boundary.year", 2022)
	v.SetDefault("boundary.resolution", "500k")
	v.SetDefault("terrain.zoom", 8)
	v.SetDefault("terrain.concurrency", 8)
	v.SetDefault("popcenter.use_mirror", false)
	v.SetDefault("fetch.timeout_secs", 120)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "csv")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
