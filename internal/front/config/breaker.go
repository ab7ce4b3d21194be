package config

import "time"

// BreakerConfig настраивает circuit breaker вокруг удаленного API.
type BreakerConfig struct {
	ErrorThreshold   int           `yaml:"error_threshold" env:"TCO_FRONT_BREAKER_ERROR_THRESHOLD" env-default:"5"`
	Timeout          time.Duration `yaml:"timeout" env:"TCO_FRONT_BREAKER_TIMEOUT" env-default:"10s"`
	SuccessThreshold int           `yaml:"success_threshold" env:"TCO_FRONT_BREAKER_SUCCESS_THRESHOLD" env-default:"2"`
}
