package repository

import "errors"

// ErrNotFound is returned when a setting has no stored value.
//
// The service layer translates it into a domain-level error, so callers never
// see sql.ErrNoRows.
var ErrNotFound = errors.New("repository: not found")
