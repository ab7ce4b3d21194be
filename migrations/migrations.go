// Package migrations содержит SQL миграции, встроенные в бинарник.
package migrations

import "embed"

// Front миграции хранилища учетных данных front сервиса.
//
//go:embed front/*.sql
var Front embed.FS

// FrontDir каталог миграций внутри Front.
const FrontDir = "front"
