package http

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"

	"github.com/the-maldridge/rackhttp/pkg/config"
	"github.com/the-maldridge/rackhttp/pkg/types"
)

const (
	defaultRootDir   = "./static/http"
	defaultAPIRoot   = "/"
	defaultTimeoutMS = 86400000 // 24 hours
)

// New normalizes the endpoint descriptor and mounts the route groups
// it names.  Nothing is bound until Start is called.
func New(desc types.Descriptor, cfg ConfigSource, api RouterProvider, l hclog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil || api == nil || l == nil {
		return nil, ErrMissingCollaborator
	}

	s := Server{
		l:        l.Named("httpService"),
		r:        chi.NewRouter(),
		n:        &http.Server{},
		cfg:      cfg,
		endpoint: types.ParseEndpoint(desc),
	}

	for _, o := range opts {
		if err := o(&s); err != nil {
			return nil, err
		}
	}
	s.conns = newConnRegistry(s.metrics)

	s.n.Handler = s.r
	s.n.ConnState = s.trackState

	s.mount(api)

	return &s, nil
}

func (s *Server) mount(api RouterProvider) {
	rootDir := s.cfg.GetString(config.KeyRootDir, defaultRootDir)
	apiRoot := s.cfg.GetString(config.KeyAPIRoot, defaultAPIRoot)

	s.r.Use(middleware.Recoverer)
	s.r.Use(requestLogger(s.l))
	s.r.Use(compress)
	s.r.Use(allowCORS())
	s.r.Use(answerOptions)

	if s.endpoint.Routers.Has(types.Southbound) {
		s.r.Use(staticFiles(apiRoot, rootDir))
		s.r.Use(directoryListing(apiRoot, rootDir))

		s.l.Info("Static file server defined at API", "url", "http://"+s.address()+apiRoot, "root", rootDir)
	}

	if s.endpoint.Routers.Has(types.Northbound) {
		s.r.Use(staticFiles(apiRoot, filepath.Join(rootDir, "gui")))
		s.r.Mount("/", api.HTTPEntry())

		s.l.Info("Northbound API defined", "url", "http://"+s.address())
		return
	}

	// chi only runs its middleware stack once a route exists.
	s.r.Handle("/*", http.NotFoundHandler())
}

// Start binds the listener and begins serving in the background.  A
// bind failure is logged and returned, and leaves the Server ready
// for another attempt.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateConstructed {
		return ErrInvalidState{Op: "start", State: s.state.String()}
	}

	if !s.endpoint.HasPort() {
		s.l.Error("Service start error", "error", ErrNoPort)
		return ErrNoPort
	}

	addr := s.address()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.l.Error("Service start error", "address", addr, "error", err)
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	s.ln = &trackingListener{Listener: ln, conns: s.conns}
	if ms := s.cfg.GetInt(config.KeyTimeout, defaultTimeoutMS); ms > 0 {
		s.n.IdleTimeout = time.Duration(ms) * time.Millisecond
	}

	s.done = make(chan error, 1)
	go func() {
		s.done <- s.n.Serve(s.ln)
	}()

	s.state = stateRunning
	s.l.Info("HTTP is listening", "address", ln.Addr().String(), "routers", s.endpoint.Routers.String())
	return nil
}

// Stop closes the listener, forcibly closes every connection still
// open, and returns once the serve loop has exited.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateRunning {
		return ErrInvalidState{Op: "stop", State: s.state.String()}
	}
	s.state = stateStopped

	closeErr := s.ln.Close()
	destroyed := s.conns.drainAndDestroyAll()
	serveErr := <-s.done

	s.l.Info("Server closing", "address", s.ln.Addr().String(), "destroyed", destroyed)

	if closeErr != nil {
		s.l.Error("Service stop error", "error", closeErr)
		return fmt.Errorf("failed to close listener: %w", closeErr)
	}
	if serveErr != nil && !errors.Is(serveErr, net.ErrClosed) && !errors.Is(serveErr, http.ErrServerClosed) {
		s.l.Error("Service stop error", "error", serveErr)
		return fmt.Errorf("failed to close listener: %w", serveErr)
	}
	return nil
}

// Addr returns the bound address, or nil if the Server is not
// running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateRunning {
		return nil
	}
	return s.ln.Addr()
}

// Endpoint returns the normalized endpoint configuration.
func (s *Server) Endpoint() types.EndpointConfig {
	return s.endpoint
}

// Handler exposes the mounted routing tree.
func (s *Server) Handler() http.Handler {
	return s.r
}

func (s *Server) address() string {
	return net.JoinHostPort(s.endpoint.Address, strconv.Itoa(s.endpoint.Port))
}

// trackState drops connections from the registry once the server has
// closed them.  Hijacked connections stay registered so that Stop
// still tears them down.
func (s *Server) trackState(c net.Conn, cs http.ConnState) {
	if cs == http.StateClosed {
		s.conns.forgetConnection(c)
	}
}
