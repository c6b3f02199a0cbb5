package domain

import "errors"

// ErrNotFound marks the absence of an entity. Repositories wrap it so
// callers can distinguish "no such row" from infrastructure failures with
// errors.Is.
var ErrNotFound = errors.New("not found")

// ErrInvalidInput marks a request that fails domain validation, mapped to a
// 400 by the API layer.
var ErrInvalidInput = errors.New("invalid input")
