package datastore

import "errors"

// ErrNotReady indicates the datastore connection has not been established.
var ErrNotReady = errors.New("datastore not ready")
