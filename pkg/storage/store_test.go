package storage

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nullStore struct{}

func (nullStore) Get([]byte) ([]byte, error) { return nil, nil }
func (nullStore) Put([]byte, []byte) error   { return nil }
func (nullStore) Del([]byte) error           { return nil }
func (nullStore) Keys() ([][]byte, error)    { return nil, nil }
func (nullStore) Close() error               { return nil }

func TestRegistry(t *testing.T) {
	SetLogger(hclog.NewNullLogger())

	calls := 0
	RegisterCallback(func() {
		calls++
		RegisterFactory("null", func(hclog.Logger) (Storage, error) { return nullStore{}, nil })
	})
	DoCallbacks()
	DoCallbacks()
	assert.Equal(t, 1, calls)

	s, err := Initialize("null")
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = Initialize("does-not-exist")
	assert.ErrorIs(t, err, ErrUnknownStore)
}
