package config

import "fmt"

// PostgresConfig содержит настройки подключения к базе данных учетных данных.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"TCO_FRONT_POSTGRES_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"TCO_FRONT_POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"TCO_FRONT_POSTGRES_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"TCO_FRONT_POSTGRES_PASSWORD" env-default:"postgres"`
	Database string `yaml:"database" env:"TCO_FRONT_POSTGRES_DB" env-default:"tco_front"`
	SSLMode  string `yaml:"ssl_mode" env:"TCO_FRONT_POSTGRES_SSLMODE" env-default:"disable"`
	MinConn  int    `yaml:"min_conn" env:"TCO_FRONT_POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn  int    `yaml:"max_conn" env:"TCO_FRONT_POSTGRES_MAX_CONN" env-default:"4"`
}

// GetDSN возвращает строку подключения для pgx.
func (p *PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// GetConnectionURL возвращает URL подключения для миграций.
func (p *PostgresConfig) GetConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}
