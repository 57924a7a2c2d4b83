package types

import (
	"strings"
)

// A Router names one of the route groups an endpoint can serve.
type Router string

const (
	// Northbound is the JSON API plus the bundled UI.
	Northbound Router = "northbound"

	// Southbound is the static file tree with directory listing.
	Southbound Router = "southbound"
)

// DefaultAddress is used when a descriptor carries no address.
const DefaultAddress = "0.0.0.0"

// NoPort marks an endpoint whose descriptor did not name a port.
const NoPort = -1

// A RouterSet is the set of route groups mounted on an endpoint.
type RouterSet uint8

const (
	northboundBit RouterSet = 1 << iota
	southboundBit
)

// DefaultRouters is the set used whenever the descriptor's routers
// are absent, empty, or of a shape that cannot be parsed.
const DefaultRouters = northboundBit | southboundBit

func (r Router) bit() RouterSet {
	switch r {
	case Northbound:
		return northboundBit
	case Southbound:
		return southboundBit
	default:
		return 0
	}
}

// NewRouterSet builds a set from names.  Names that are not a known
// Router contribute nothing.
func NewRouterSet(routers ...Router) RouterSet {
	var s RouterSet
	for _, r := range routers {
		s |= r.bit()
	}
	return s
}

// Has reports set membership.
func (s RouterSet) Has(r Router) bool {
	b := r.bit()
	return b != 0 && s&b == b
}

// List returns the members in canonical order.
func (s RouterSet) List() []Router {
	out := make([]Router, 0, 2)
	for _, r := range []Router{Northbound, Southbound} {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s RouterSet) String() string {
	names := make([]string, 0, 2)
	for _, r := range s.List() {
		names = append(names, string(r))
	}
	return strings.Join(names, ",")
}

// ParseRouters converts the loosely typed routers value of a
// descriptor into a RouterSet.  A nil value, an empty string and an
// empty sequence yield DefaultRouters.  A single string yields the
// singleton set for that name.  A sequence of strings yields the set
// of its names.  Anything else falls back to DefaultRouters.
func ParseRouters(v interface{}) RouterSet {
	switch routers := v.(type) {
	case nil:
		return DefaultRouters
	case Router:
		return ParseRouters(string(routers))
	case string:
		if routers == "" {
			return DefaultRouters
		}
		return NewRouterSet(Router(routers))
	case []string:
		if len(routers) == 0 {
			return DefaultRouters
		}
		var s RouterSet
		for _, name := range routers {
			s |= Router(name).bit()
		}
		return s
	case []Router:
		if len(routers) == 0 {
			return DefaultRouters
		}
		return NewRouterSet(routers...)
	case []interface{}:
		if len(routers) == 0 {
			return DefaultRouters
		}
		var s RouterSet
		for _, elem := range routers {
			name, ok := elem.(string)
			if !ok {
				return DefaultRouters
			}
			s |= Router(name).bit()
		}
		return s
	default:
		return DefaultRouters
	}
}

// A Descriptor is the raw, unvalidated description of an endpoint as
// it arrives from configuration.
type Descriptor struct {
	Address string      `json:"address,omitempty"`
	Port    *int        `json:"port,omitempty"`
	Routers interface{} `json:"routers,omitempty"`
}

// EndpointConfig is the normalized form of a Descriptor.
type EndpointConfig struct {
	Address string
	Port    int
	Routers RouterSet
}

// ParseEndpoint normalizes a descriptor.  It never fails: malformed
// fields are replaced by their defaults.
func ParseEndpoint(d Descriptor) EndpointConfig {
	ec := EndpointConfig{
		Address: d.Address,
		Port:    NoPort,
		Routers: ParseRouters(d.Routers),
	}
	if ec.Address == "" {
		ec.Address = DefaultAddress
	}
	if d.Port != nil {
		ec.Port = *d.Port
	}
	return ec
}

// HasPort reports whether a port was configured at all.
func (ec EndpointConfig) HasPort() bool {
	return ec.Port != NoPort
}
