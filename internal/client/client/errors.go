package client

import "errors"

// ErrNoEndpoint is returned when no server address is configured.
var ErrNoEndpoint = errors.New("server endpoint is not configured")
