package storage

import (
	"errors"
)

// ErrUnknownStore is returned when a store is requested that has not
// been registered.
var ErrUnknownStore = errors.New("no factory exists with that name")

// Storage is the key/value interface that persisted configuration
// overrides are kept in.
type Storage interface {
	Get([]byte) ([]byte, error)
	Put([]byte, []byte) error
	Del([]byte) error
	Keys() ([][]byte, error)

	Close() error
}
