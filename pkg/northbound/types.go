package northbound

import (
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
)

// ConfigStore is the view of the configuration the API exposes and
// modifies.
type ConfigStore interface {
	All() map[string]interface{}
	Set(string, interface{}) error
}

// API is the northbound routing tree mounted by the HTTP service.
type API struct {
	l hclog.Logger

	cfg      ConfigStore
	gatherer prometheus.Gatherer
}

// An Option configures the API.
type Option func(*API)
