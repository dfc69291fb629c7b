package client

import "errors"

// ErrUnavailable is returned by Ping when the backend is unreachable or
// reports an unhealthy status.
var ErrUnavailable = errors.New("server unavailable")
