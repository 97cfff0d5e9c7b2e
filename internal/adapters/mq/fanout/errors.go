package fanout

import "errors"

var (
	// ErrRegistryClosed is returned when subscribing after shutdown.
	ErrRegistryClosed = errors.New("fanout: registry is closed")

	// ErrUnknownScope is returned for an unrecognized audience scope.
	ErrUnknownScope = errors.New("fanout: unknown audience scope")
)
