package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned on a duplicate-key insert.
var ErrAlreadyExists = errors.New("already exists")

// ErrNotAvailable is returned when a book already has an active loan.
var ErrNotAvailable = errors.New("not available")

// ErrInvalidReturn is returned when a loan return is attempted by a
// user other than the recorded borrower.
var ErrInvalidReturn = errors.New("invalid return")

// ErrAlreadyRevoked is returned when a token id is revoked twice.
var ErrAlreadyRevoked = errors.New("already revoked")
