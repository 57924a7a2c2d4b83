package http

import (
	"net"
	"sync"
)

// trackingListener registers every accepted connection and makes
// Close safe to call more than once, since both Stop and the
// http.Server close it.
type trackingListener struct {
	net.Listener

	conns *connRegistry

	once     sync.Once
	closeErr error
}

func (tl *trackingListener) Accept() (net.Conn, error) {
	for {
		c, err := tl.Listener.Accept()
		if err != nil {
			return nil, err
		}
		if tl.conns.registerConnection(c) {
			return c, nil
		}
	}
}

func (tl *trackingListener) Close() error {
	tl.once.Do(func() {
		tl.closeErr = tl.Listener.Close()
	})
	return tl.closeErr
}
