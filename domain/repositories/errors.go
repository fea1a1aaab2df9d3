package repositories

import "errors"

// ErrNotFound is returned by every repository when the requested row does not exist.
var ErrNotFound = errors.New("record not found")
