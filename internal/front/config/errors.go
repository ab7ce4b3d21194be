package config

import "errors"

// Ошибки валидации конфигурации.
var (
	ErrEmptyBaseURL          = errors.New("api base url is empty")
	ErrUnknownStorageBackend = errors.New("unknown storage backend")
	ErrNonPositiveDuration   = errors.New("duration must be positive")
)
