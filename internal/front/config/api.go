package config

import "time"

// APIConfig описывает удаленный REST API TCO.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"TCO_FRONT_API_BASE_URL" env-default:"http://localhost:8000"`
	Timeout   time.Duration `yaml:"timeout" env:"TCO_FRONT_API_TIMEOUT" env-default:"30s"`
	UserAgent string        `yaml:"user_agent" env:"TCO_FRONT_API_USER_AGENT" env-default:"tco-front/1.0"`
}
