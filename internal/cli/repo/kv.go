package repo

import "errors"

// ErrKeyNotFound — ключа нет в хранилище.
var ErrKeyNotFound = errors.New("key not found")

// KV — локальное key/value хранилище клиента.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}
