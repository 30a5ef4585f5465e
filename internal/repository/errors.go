// Package repository defines error values that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// session manager and handlers to distinguish between failure scenarios
// without inspecting driver-specific errors.  For example, ErrNotFound
// signals that a looked-up row does not exist, which the session layer
// treats as "no session" while a record handler translates it to 404.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist, or when an
// update scoped to a user matched no rows.  Callers decide whether that
// means 404, "invalid credentials" or "no session".
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned by UserRepo.Create when the email address is
// already registered.  Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
