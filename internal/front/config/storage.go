package config

// Поддерживаемые хранилища учетных данных.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// StorageConfig выбирает долговременное хранилище учетных данных.
type StorageConfig struct {
	Backend   string `yaml:"backend" env:"TCO_FRONT_STORAGE_BACKEND" env-default:"memory"`
	KeyPrefix string `yaml:"key_prefix" env:"TCO_FRONT_STORAGE_KEY_PREFIX" env-default:"tco:front:"`
}
