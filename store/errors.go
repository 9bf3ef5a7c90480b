package store

import "errors"

// Sentinel errors shared by the directory and the message store; HTTP
// handlers translate them to status codes, socket handlers log and drop.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)
