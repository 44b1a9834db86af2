// Package services defines the business logic of the moderation core: the
// per-message pipeline, the moderator warning surface, and the member
// greeter. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/transport layer.
package services

import "errors"

var (
	// ErrStoreUnavailable indicates the durable engagement store could not
	// be reached or a write failed. The pipeline propagates it to the
	// caller instead of silently dropping the message's outcome; any
	// delete/notice actions already issued stand, and the caller may retry
	// the whole message (store writes are idempotent-safe).
	ErrStoreUnavailable = errors.New("engagement store unavailable")

	// ErrEmptyReason is returned when a moderator warning is issued with a
	// blank reason.
	ErrEmptyReason = errors.New("warning reason is empty")

	// ErrUnknownUser indicates a level query for a user with no engagement
	// row (the user has never sent a processed message).
	ErrUnknownUser = errors.New("user has no engagement record")
)
