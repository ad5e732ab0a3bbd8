package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist — or exists but is not owned by the requesting
// user; the two cases are deliberately indistinguishable to callers.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing label, malformed date, unknown item type).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")
