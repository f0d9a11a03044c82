// Package config loads coverage-server configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Engine EngineConfig
}

type ServerConfig struct {
	Addr        string
	MetricsAddr string
}

type LogConfig struct {
	Level  string
	Format string
}

type EngineConfig struct {
	// Workers bounds the accumulation worker pool; 0 means one worker
	// per CPU.
	Workers int
	// ChunkSize bounds how many placed polygons are held in memory at
	// once; 0 disables chunking.
	ChunkSize int
}

// Load reads configuration from the environment, seeded from an optional
// .env file in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("COVERAGE_ADDR", ":8080")
	v.SetDefault("COVERAGE_METRICS_ADDR", ":9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("COVERAGE_WORKERS", 0)
	v.SetDefault("COVERAGE_CHUNK_SIZE", 256)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// A missing .env is fine; the environment still applies.
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:        v.GetString("COVERAGE_ADDR"),
			MetricsAddr: v.GetString("COVERAGE_METRICS_ADDR"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Engine: EngineConfig{
			Workers:   v.GetInt("COVERAGE_WORKERS"),
			ChunkSize: v.GetInt("COVERAGE_CHUNK_SIZE"),
		},
	}

	if cfg.Engine.Workers < 0 {
		return nil, fmt.Errorf("COVERAGE_WORKERS must be >= 0, got %d", cfg.Engine.Workers)
	}
	if cfg.Engine.ChunkSize < 0 {
		return nil, fmt.Errorf("COVERAGE_CHUNK_SIZE must be >= 0, got %d", cfg.Engine.ChunkSize)
	}
	return cfg, nil
}
