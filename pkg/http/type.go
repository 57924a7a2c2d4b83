package http

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/rackhttp/pkg/types"
)

// ConfigSource is the keyed lookup the service reads its settings
// from.  Every lookup carries the default to use when the key is
// unset.
type ConfigSource interface {
	GetString(key, def string) string
	GetInt(key string, def int) int
}

// A RouterProvider supplies the northbound API as a mountable
// routing tree.
type RouterProvider interface {
	HTTPEntry() chi.Router
}

// An Option configures optional parts of the Server.
type Option func(*Server) error

// Server owns a single HTTP listener: the routes mounted on it, the
// listener itself and the connections it has accepted.
type Server struct {
	l hclog.Logger
	r chi.Router
	n *http.Server

	cfg      ConfigSource
	endpoint types.EndpointConfig

	conns   *connRegistry
	metrics *connMetrics

	mu    sync.Mutex
	state lifecycle
	ln    *trackingListener
	done  chan error
}

type lifecycle int

const (
	stateConstructed lifecycle = iota
	stateRunning
	stateStopped
)

func (lc lifecycle) String() string {
	switch lc {
	case stateConstructed:
		return "constructed"
	case stateRunning:
		return "running"
	case stateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
