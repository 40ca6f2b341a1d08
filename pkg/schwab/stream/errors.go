package stream

import "errors"

var (
	ErrNoKeys         = errors.New("stream: at least one key is required")
	ErrNilCallback    = errors.New("stream: callback must not be nil")
	ErrDuplicateRoute = errors.New("stream: service already registered")
)
