package config

import (
	"sync"

	"github.com/the-maldridge/rackhttp/pkg/storage"
)

// Keys understood by the HTTP service and the binary.
const (
	KeyRootDir   = "httpFileServiceRootDir"
	KeyAPIRoot   = "httpFileServiceApiRoot"
	KeyTimeout   = "httpTimeout"
	KeyEndpoints = "httpEndpoints"
	KeyGuiRepo   = "httpGuiRepo"
	KeyGuiRef    = "httpGuiRef"
	KeyGuiBundle = "httpGuiBundle"
)

// Config is a keyed configuration source.  Values come from the
// defaults, are replaced by whatever a config file provides, and are
// finally overridden by values set at runtime, which are persisted if
// a store is attached.
type Config struct {
	mu sync.RWMutex

	values    map[string]interface{}
	overrides map[string]interface{}

	store storage.Storage
}

// Bootstrap is the small set of settings read from the environment
// before the config file can be located.
type Bootstrap struct {
	ConfigFile string `env:"RACKHTTP_CONFIG"`
	LogLevel   string `env:"RACKHTTP_LOG_LEVEL" envDefault:"INFO"`
	Store      string `env:"RACKHTTP_STORE"`
}
