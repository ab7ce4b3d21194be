package config

import "time"

// SiteDataConfig управляет кэшем общих данных сайта.
type SiteDataConfig struct {
	// TTL время, после которого данные считаются устаревшими.
	TTL time.Duration `yaml:"ttl" env:"TCO_FRONT_SITE_DATA_TTL" env-default:"5m"`
	// FetchDelay задержка перед загрузкой после входа пользователя.
	FetchDelay time.Duration `yaml:"fetch_delay" env:"TCO_FRONT_SITE_DATA_FETCH_DELAY" env-default:"100ms"`
}
