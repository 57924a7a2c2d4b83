package http

import (
	"errors"
)

var (
	// ErrMissingCollaborator is returned by New when the config
	// source, API router or logger is nil.
	ErrMissingCollaborator = errors.New("http service requires a config source, an API router and a logger")

	// ErrNoPort is returned by Start when the endpoint descriptor
	// did not name a port.
	ErrNoPort = errors.New("endpoint has no port")
)

// ErrInvalidState is returned when Start or Stop is called out of
// order: a second Start, a Stop before Start, or a second Stop.
type ErrInvalidState struct {
	Op    string
	State string
}

func (e ErrInvalidState) Error() string {
	return "cannot " + e.Op + " a " + e.State + " service"
}

// Is matches any ErrInvalidState regardless of operation.
func (e ErrInvalidState) Is(target error) bool {
	_, ok := target.(ErrInvalidState)
	return ok
}
