package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию локального HTTP сервера.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"TCO_FRONT_HTTP_HOST" env-default:"127.0.0.1"`
	Port         int           `yaml:"port" env:"TCO_FRONT_HTTP_PORT" env-default:"5173"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"TCO_FRONT_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"TCO_FRONT_HTTP_WRITE_TIMEOUT" env-default:"30s"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
