package http

import (
	"net"
	"sync"
)

// connRegistry tracks every live connection accepted by the listener
// so that Stop can tear them down rather than wait for them to go
// idle.  Once drained the registry is sealed and anything registered
// afterwards is closed on the spot.
type connRegistry struct {
	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	sealed bool

	m *connMetrics
}

func newConnRegistry(m *connMetrics) *connRegistry {
	return &connRegistry{
		conns: make(map[net.Conn]struct{}),
		m:     m,
	}
}

// registerConnection records c.  It returns false if the registry has
// already been drained, in which case c has been closed.
func (cr *connRegistry) registerConnection(c net.Conn) bool {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	cr.m.accepted()
	if cr.sealed {
		c.Close()
		cr.m.destroyed(1)
		return false
	}
	cr.conns[c] = struct{}{}
	cr.m.setLive(len(cr.conns))
	return true
}

// forgetConnection drops c once the server has finished with it.
func (cr *connRegistry) forgetConnection(c net.Conn) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	delete(cr.conns, c)
	cr.m.setLive(len(cr.conns))
}

// drainAndDestroyAll closes every registered connection, seals the
// registry and returns how many connections were closed.
func (cr *connRegistry) drainAndDestroyAll() int {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	n := len(cr.conns)
	for c := range cr.conns {
		c.Close()
		delete(cr.conns, c)
	}
	cr.sealed = true
	cr.m.destroyed(n)
	cr.m.setLive(0)
	return n
}

func (cr *connRegistry) Len() int {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return len(cr.conns)
}
