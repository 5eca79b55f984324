package repository

import "errors"

// ErrStaleRevision a conditional update matched no row: the article changed
// (or was deleted) after it was read.
var ErrStaleRevision = errors.New("stale article revision")
