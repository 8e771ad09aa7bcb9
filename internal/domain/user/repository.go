package user

import (
	"context"
	"errors"
)

// DeviceKind names a supported wearable.
type DeviceKind string

const (
	DeviceOuraRing DeviceKind = "Oura Ring"
)

// ErrNotFound is returned when the identity or device has no stored record.
var ErrNotFound = errors.New("user record not found")

// Store looks up device credentials and manages per-user preferences. The
// store is an explicitly constructed client with a defined lifetime, injected
// into the orchestrator rather than imported as ambient state.
type Store interface {
	DeviceCredential(ctx context.Context, identity string, kind DeviceKind) (string, error)
	Preferences(ctx context.Context, identity string) ([]string, error)
	AddPreference(ctx context.Context, identity, preference string) error
	RemovePreference(ctx context.Context, identity, preference string) error
}
