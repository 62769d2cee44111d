package core

import "errors"

// Error codes surfaced to clients or logs.
const (
	ErrCodeAuthRequired = "auth_required"
	ErrCodeUnknownRoom  = "unknown_room"
	ErrCodeAlreadyBound = "already_bound"
	ErrCodeBadRequest   = "bad_request"
)

var (
	// ErrAlreadyBound is returned when a connection authenticates as a
	// second, different identity. The original binding is kept.
	ErrAlreadyBound = errors.New("connection already bound to another identity")

	// ErrConnClosed is returned by Conn.Next after the connection's queue
	// has been torn down.
	ErrConnClosed = errors.New("connection closed")
)
