// Package config загружает конфигурацию сервисов через cleanenv.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"tcofront/pkg/logger"
)

const (
	msgLoadingConfiguration    = "loading configuration"
	msgConfigurationLoaded     = "configuration loaded successfully"
	msgFailedLoadConfiguration = "failed to load configuration"

	errFailedLoadConfiguration = "failed to load configuration"

	attrService = "service"
	attrPath    = "path"
	attrSource  = "source"
)

// DefaultEnvPath путь к .env файлу относительно рабочего каталога.
var DefaultEnvPath = filepath.Join("deploy", ".env")

// Load читает конфигурацию типа T. Если файл envPath существует, значения берутся из него
// (переменные окружения при этом имеют приоритет), иначе только из окружения.
func Load[T any](ctx context.Context, serviceName, envPath string) (*T, error) {
	log := logger.Log(ctx).With(zap.String(attrService, serviceName))

	var cfg T
	var err error

	_, statErr := os.Stat(envPath)
	switch {
	case envPath != "" && statErr == nil:
		log.Info(ctx, msgLoadingConfiguration, zap.String(attrPath, envPath), zap.String(attrSource, "file"))
		err = cleanenv.ReadConfig(envPath, &cfg)
	case envPath == "" || errors.Is(statErr, fs.ErrNotExist):
		log.Info(ctx, msgLoadingConfiguration, zap.String(attrSource, "env"))
		err = cleanenv.ReadEnv(&cfg)
	default:
		err = statErr
	}

	if err != nil {
		log.Error(ctx, msgFailedLoadConfiguration, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errFailedLoadConfiguration, err)
	}

	log.Info(ctx, msgConfigurationLoaded)
	return &cfg, nil
}
