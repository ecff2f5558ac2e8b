package repository

import "errors"

// ErrNotFound is returned when a cache lookup misses; callers decide whether
// that means "fetch upstream" or "404".
var ErrNotFound = errors.New("not found")
