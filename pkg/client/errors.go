package client

import "errors"

var (
	// ErrInvalidTransition is returned when a Sim method is called from a state that does
	// not allow it.
	ErrInvalidTransition = errors.New("client: invalid state transition")

	// ErrTransportClosed is returned by a Transport after Close.
	ErrTransportClosed = errors.New("client: transport closed")
)
