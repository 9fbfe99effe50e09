package repository

import "errors"

// ErrNotFound is returned by lookups when no row matches. Implementations
// return it unwrapped or wrapped; callers branch with errors.Is so a store
// outage is never mistaken for an absent row.
var ErrNotFound = errors.New("not found")
