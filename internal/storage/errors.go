package storage

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrConflict = errors.New("resource conflict (e.g., duplicate key)")
var ErrDuplicateEmail = errors.New("email already registered")

// ErrTransient marks failures worth retrying: lost connections, serialization failures,
// deadlocks, lock timeouts and pool exhaustion.
var ErrTransient = errors.New("transient storage failure")
