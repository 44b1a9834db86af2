package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nqAtomic/my-discord-bott/internal/domain"
)

// Greeter posts a welcome notice when a member joins a guild. It holds no
// durable state; an undeliverable greeting is logged and dropped.
type Greeter struct {
	Notifier       Notifier
	WelcomeChannel string
	Log            zerolog.Logger
}

// Greet validates the event and sends the welcome notice to the configured
// welcome channel. Malformed events are rejected without side effects.
func (g *Greeter) Greet(ctx context.Context, ev domain.MemberJoinEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	name := ev.Username
	if name == "" {
		name = ev.UserID
	}
	text := fmt.Sprintf("Welcome <@%s> to the server, %s!", ev.UserID, name)
	if err := g.Notifier.SendNotice(ctx, g.WelcomeChannel, text); err != nil {
		g.Log.Warn().Err(err).Str("user_id", ev.UserID).Msg("welcome notice failed")
	}
	return nil
}
