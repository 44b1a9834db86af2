// Package services – external collaborator surfaces
//
// The moderation core never speaks to the chat platform directly. The
// transport layer hands it inbound events (domain.MessageEvent) and
// implements the two interfaces below for the actions the core decides on.
// This keeps the platform SDK, sessions, and auth entirely outside the
// core.
package services

import (
	"context"
	"time"

	"github.com/nqAtomic/my-discord-bott/internal/domain"
)

// Notifier delivers moderation actions back to the originating channel or
// guild. Implementations are expected to be safe for concurrent use.
//
// Failures from any Notifier method are treated as transport problems:
// the pipeline logs them and continues, it never blocks or aborts message
// processing on notification delivery.
type Notifier interface {
	// DeleteMessage removes the offending message from its channel.
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// SendNotice posts a persistent message to a channel (e.g. level-up
	// celebrations, welcome greetings).
	SendNotice(ctx context.Context, channelID, text string) error

	// SendEphemeralNotice posts a message that the transport deletes again
	// after ttl (e.g. the transient bad-word warning).
	SendEphemeralNotice(ctx context.Context, channelID, text string, ttl time.Duration) error

	// SendLog routes a moderation log line to the guild's configured log
	// channel, resolved by name on the transport side.
	SendLog(ctx context.Context, guildID, text string) error
}

// Dispatcher is the command-processing collaborator. Accepted messages are
// offered to it unmodified so prefixed commands embedded in otherwise-clean
// messages still execute. Rejected and ignored messages are never
// dispatched.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev domain.MessageEvent) error
}

// NopNotifier is a Notifier that discards every action. Useful for tests
// and for running the pipeline before the transport is wired up.
type NopNotifier struct{}

func (NopNotifier) DeleteMessage(context.Context, string, string) error { return nil }
func (NopNotifier) SendNotice(context.Context, string, string) error    { return nil }
func (NopNotifier) SendEphemeralNotice(context.Context, string, string, time.Duration) error {
	return nil
}
func (NopNotifier) SendLog(context.Context, string, string) error { return nil }

// NopDispatcher is a Dispatcher that ignores every message.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(context.Context, domain.MessageEvent) error { return nil }
