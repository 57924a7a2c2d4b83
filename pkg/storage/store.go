package storage

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	log hclog.Logger

	mu            sync.Mutex
	initcallbacks []func()

	factories map[string]Factory
)

// A Factory creates a store instance that configuration overrides can
// be persisted into.
type Factory func(hclog.Logger) (Storage, error)

func init() {
	factories = make(map[string]Factory)
	log = hclog.L()
}

// SetLogger injects a logger into this package to allow setting up a
// logger tree.
func SetLogger(l hclog.Logger) {
	log = l.Named("storage")
}

// RegisterFactory registers a factory to the list of available stores.
func RegisterFactory(s string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := factories[s]; exists {
		log.Warn("Store name collision", "store", s)
		return
	}
	factories[s] = f
	log.Debug("Registered store", "store", s)
}

// RegisterCallback provides a mechanism for early registration of a
// function to be called during initialization.  Backends register
// here from init() and only add their factory once logging is
// configured.
func RegisterCallback(f func()) {
	mu.Lock()
	defer mu.Unlock()
	initcallbacks = append(initcallbacks, f)
}

// DoCallbacks invokes all callbacks, which registers the backends'
// factories.  Callbacks are consumed so that repeated calls are
// harmless.
func DoCallbacks() {
	mu.Lock()
	cbs := initcallbacks
	initcallbacks = nil
	mu.Unlock()

	for _, cb := range cbs {
		cb()
	}
}

// Initialize attempts to initialize the given store and returns
// either a ready to use store or an error.
func Initialize(s string) (Storage, error) {
	mu.Lock()
	f, ok := factories[s]
	mu.Unlock()
	if !ok {
		log.Error("Non-existent factory requested", "factory", s)
		return nil, ErrUnknownStore
	}
	return f(log)
}
