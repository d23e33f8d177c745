package model

import (
	"errors"
	"fmt"
)

// Error taxonomy of the connection and publish workflows. Handlers map these
// to HTTP statuses; usecases wrap them with context via fmt.Errorf("%w", ...).
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrNotConfigured     = errors.New("platform oauth not configured")
	ErrUserDenied        = errors.New("user denied consent")
	ErrNoEligibleAccount = errors.New("no eligible account on provider side")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotConnected      = errors.New("platform not connected")
	ErrRemoteRejected    = errors.New("remote platform rejected the request")
	ErrNotFound          = errors.New("not found")
)

// RemoteRejected wraps a provider-supplied message into the taxonomy.
func RemoteRejected(message string) error {
	if message == "" {
		return ErrRemoteRejected
	}
	return fmt.Errorf("%w: %s", ErrRemoteRejected, message)
}
