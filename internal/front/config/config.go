// Package config содержит конфигурацию front сервиса TCO.
package config

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	pkgconfig "tcofront/pkg/config"
	"tcofront/pkg/logger"
)

// ServiceName имя сервиса в логах.
const ServiceName = "tco-front"

// Константы ошибок и сообщений для конфигурации.
const (
	LogConfigSummary    = "front configuration"
	ErrFailedLoadConfig = "failed to load front configuration"
)

// Config представляет полную конфигурацию front сервиса.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	API      APIConfig      `yaml:"api"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	SiteData SiteDataConfig `yaml:"site_data"`
	Breaker  BreakerConfig  `yaml:"breaker"`
}

// Load загружает конфигурацию из deploy/.env (если есть) и переменных окружения.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, pkgconfig.DefaultEnvPath)
}

// LoadFrom загружает конфигурацию из указанного .env файла.
func LoadFrom(ctx context.Context, envPath string) (*Config, error) {
	log := logger.Log(ctx)

	cfg, err := pkgconfig.Load[Config](ctx, ServiceName, envPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	log.Info(ctx, LogConfigSummary,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.Duration("api_timeout", cfg.API.Timeout),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Duration("site_data_ttl", cfg.SiteData.TTL),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}

// Validate проверяет согласованность значений.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	switch c.Storage.Backend {
	case StorageMemory, StorageRedis, StoragePostgres:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageBackend, c.Storage.Backend)
	}
	if c.SiteData.TTL <= 0 {
		return fmt.Errorf("%w: site data ttl", ErrNonPositiveDuration)
	}
	return nil
}
