// Package domain – inbound events
//
// This file defines the transport-facing event types handed to the
// moderation core by the hosting chat transport. The core never talks to
// the platform directly; it consumes these events and issues actions back
// through the services.Notifier interface.
package domain

import (
	"errors"
	"time"
)

// ErrMalformedEvent is returned when an inbound event is missing a required
// field. Malformed events are rejected before any state mutation.
var ErrMalformedEvent = errors.New("malformed event")

// MessageEvent is a single inbound chat message as delivered by the
// transport collaborator. Content may legitimately be empty (e.g. an
// attachment-only message); every other field is required.
type MessageEvent struct {
	ID          string    // platform message identifier
	GuildID     string    // owning guild/server
	ChannelID   string    // originating channel
	AuthorID    string    // message author
	AuthorIsBot bool      // true for system/bot-originated senders
	Content     string    // raw message text
	Timestamp   time.Time // arrival time as observed by the transport
}

// Validate reports ErrMalformedEvent when a required field is absent.
func (e MessageEvent) Validate() error {
	switch {
	case e.ID == "":
		return errors.Join(ErrMalformedEvent, errors.New("missing message id"))
	case e.GuildID == "":
		return errors.Join(ErrMalformedEvent, errors.New("missing guild id"))
	case e.ChannelID == "":
		return errors.Join(ErrMalformedEvent, errors.New("missing channel id"))
	case e.AuthorID == "":
		return errors.Join(ErrMalformedEvent, errors.New("missing author id"))
	case e.Timestamp.IsZero():
		return errors.Join(ErrMalformedEvent, errors.New("missing timestamp"))
	}
	return nil
}

// MemberJoinEvent announces a new member joining a guild. Used only by the
// greeter; carries no moderation state.
type MemberJoinEvent struct {
	GuildID  string
	UserID   string
	Username string
}

// Validate reports ErrMalformedEvent when a required field is absent.
func (e MemberJoinEvent) Validate() error {
	switch {
	case e.GuildID == "":
		return errors.Join(ErrMalformedEvent, errors.New("missing guild id"))
	case e.UserID == "":
		return errors.Join(ErrMalformedEvent, errors.New("missing user id"))
	}
	return nil
}
