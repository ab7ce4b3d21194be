// Package storage определяет интерфейсы долговременного хранилища ключ-значение.
package storage

import "context"

// Batch набор изменений, применяемых к хранилищу одной операцией.
type Batch struct {
	Set    map[string]string
	Delete []string
}

// Empty сообщает, что пакет не содержит изменений.
func (b Batch) Empty() bool {
	return len(b.Set) == 0 && len(b.Delete) == 0
}

// KeyValueStore определяет интерфейс долговременного хранилища строковых значений.
type KeyValueStore interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)

	Set(ctx context.Context, key, value string) error

	Delete(ctx context.Context, keys ...string) error

	// Apply применяет пакет изменений атомарно, насколько это позволяет хранилище.
	Apply(ctx context.Context, batch Batch) error

	Close() error
}
