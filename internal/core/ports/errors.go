package ports

import "errors"

// ErrNotFound is returned by repositories when the requested row does not
// exist. Services translate it into their per-operation outcome.
var ErrNotFound = errors.New("entity not found")
