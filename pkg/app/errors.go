package app

import "errors"

var (
	// ErrStartFailed wraps any failure while constructing, loading,
	// initializing or subscribing an app.
	ErrStartFailed = errors.New("app start failed")

	// ErrUnknownApp is returned for an index or name that is not registered.
	ErrUnknownApp = errors.New("unknown app")

	// ErrDuplicateApp is returned when a name is registered twice.
	ErrDuplicateApp = errors.New("app already registered")

	// ErrInvalidApp is returned when a factory cannot produce a descriptor.
	ErrInvalidApp = errors.New("invalid app")

	// ErrContentPath is returned for content paths that leave the app's root.
	ErrContentPath = errors.New("content path outside app root")
)
