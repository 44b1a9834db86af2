// Package services – Pipeline
//
// This file implements Pipeline, the moderation orchestrator. Every inbound
// message runs through a fixed, ordered sequence of checks — content filter,
// spam window, leveling — terminating on the first check that classifies the
// message as violating. Only a message that passes both rejecting checks
// advances the author's engagement state and reaches command dispatch.
//
// Observability: Process is OpenTelemetry-instrumented; spans carry message
// and author identifiers, and every terminal outcome is counted in the
// Prometheus collectors defined in metrics.go.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nqAtomic/my-discord-bott/internal/domain"
	"github.com/nqAtomic/my-discord-bott/internal/moderation"
	"github.com/nqAtomic/my-discord-bott/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ---- TEST SEAMS ----
var (
	repoGetOrCreateLevel = repo.GetOrCreateLevel
	repoUpdateLevel      = repo.UpdateLevel
)

// ephemeralNoticeTTL is how long the transient bad-word warning stays in
// the channel before the transport deletes it again.
const ephemeralNoticeTTL = 3 * time.Second

// Outcome is the terminal state the pipeline assigns to one message. No
// further moderation processing occurs after an outcome is reached.
type Outcome int

const (
	// OutcomeIgnored: the author is a bot/system sender; nothing ran.
	OutcomeIgnored Outcome = iota
	// OutcomeContentBlocked: a prohibited term matched; the message was
	// deleted, a transient notice and a log line were emitted. Spam and
	// leveling state untouched.
	OutcomeContentBlocked
	// OutcomeThrottled: the author exceeded the message-rate window; the
	// message was deleted silently. Leveling state untouched.
	OutcomeThrottled
	// OutcomeAccepted: both checks passed; engagement was advanced and the
	// message was offered to command dispatch.
	OutcomeAccepted
	// OutcomeRejectedMalformed: the event was missing a required field; no
	// state was mutated.
	OutcomeRejectedMalformed
)

// String returns the lowercase outcome name used as a metrics label.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeContentBlocked:
		return "content_blocked"
	case OutcomeThrottled:
		return "throttled"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejectedMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Pipeline sequences the moderation checks and owns the per-user write
// interlock over the engagement store.
type Pipeline struct {
	DB         *gorm.DB
	Filter     *moderation.Filter
	Spam       *moderation.Tracker
	Notifier   Notifier
	Dispatcher Dispatcher
	Log        zerolog.Logger

	// XPPerLevel is the leveling formula constant (reference: 50).
	XPPerLevel int

	locks *userLocks
}

// NewPipeline wires a Pipeline. A nil notifier or dispatcher is replaced
// with the corresponding no-op so the pipeline can run before transport
// wiring is complete.
func NewPipeline(db *gorm.DB, f *moderation.Filter, s *moderation.Tracker, n Notifier, d Dispatcher, xpPerLevel int, lg zerolog.Logger) *Pipeline {
	if n == nil {
		n = NopNotifier{}
	}
	if d == nil {
		d = NopDispatcher{}
	}
	if xpPerLevel <= 0 {
		xpPerLevel = 50
	}
	return &Pipeline{
		DB:         db,
		Filter:     f,
		Spam:       s,
		Notifier:   n,
		Dispatcher: d,
		Log:        lg,
		XPPerLevel: xpPerLevel,
		locks:      newUserLocks(),
	}
}

// Process runs one inbound message through the moderation pipeline and
// returns its terminal outcome.
//
// Errors: a malformed event returns domain.ErrMalformedEvent with no state
// mutation. A failed engagement write returns ErrStoreUnavailable alongside
// OutcomeAccepted — the delete/notice actions already issued stand, and the
// caller may retry the message (the write is idempotent). Notification
// failures never surface as errors; they are logged and processing
// continues. No error from Process is fatal to subsequent messages.
func (p *Pipeline) Process(ctx context.Context, ev domain.MessageEvent) (Outcome, error) {
	tr := otel.Tracer("services/Pipeline")
	ctx, span := tr.Start(ctx, "Process",
		trace.WithAttributes(
			attribute.String("message.id", ev.ID),
			attribute.String("author.id", ev.AuthorID),
			attribute.String("channel.id", ev.ChannelID),
		),
	)
	defer span.End()

	start := time.Now()

	// 1) Reject events the transport delivered incomplete.
	if err := ev.Validate(); err != nil {
		p.Log.Warn().Err(err).Str("message_id", ev.ID).Msg("malformed event rejected")
		observeOutcome(OutcomeRejectedMalformed, start)
		return OutcomeRejectedMalformed, err
	}

	// 2) Bot/system senders bypass moderation entirely.
	if ev.AuthorIsBot {
		observeOutcome(OutcomeIgnored, start)
		return OutcomeIgnored, nil
	}

	// 3) Content filter. Violations delete the message, warn the channel
	// transiently, and leave a log line. Spam and leveling are NOT advanced
	// for a blocked message.
	if term, violating := p.Filter.Classify(ev.Content); violating {
		p.notifyDelete(ctx, ev)
		p.notifyEphemeral(ctx, ev.ChannelID,
			fmt.Sprintf("<@%s> that language is not allowed here", ev.AuthorID))
		p.notifyLog(ctx, ev.GuildID,
			fmt.Sprintf("removed message from %s (matched %q)", ev.AuthorID, term))
		p.Log.Info().
			Str("author_id", ev.AuthorID).
			Str("message_id", ev.ID).
			Str("term", term).
			Msg("message blocked by content filter")
		observeOutcome(OutcomeContentBlocked, start)
		return OutcomeContentBlocked, nil
	}

	// 4) Spam window. Throttled messages are deleted silently: no channel
	// notice and no guild log line.
	if p.Spam.RecordAndCheck(ev.AuthorID, ev.Timestamp) {
		p.notifyDelete(ctx, ev)
		observeOutcome(OutcomeThrottled, start)
		return OutcomeThrottled, nil
	}

	// 5) Engagement. The per-user lock covers the full read-modify-write so
	// concurrent messages from the same author cannot lose updates.
	leveledUp, newLevel, err := p.advanceEngagement(ctx, ev.AuthorID)
	if err != nil {
		observeOutcome(OutcomeAccepted, start)
		return OutcomeAccepted, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if leveledUp {
		p.notifyNotice(ctx, ev.ChannelID,
			fmt.Sprintf("<@%s> reached level %d!", ev.AuthorID, newLevel))
	}

	// 6) Accepted messages are offered unmodified to command dispatch.
	// Rejected messages never reach it.
	if err := p.Dispatcher.Dispatch(ctx, ev); err != nil {
		p.Log.Warn().Err(err).Str("message_id", ev.ID).Msg("command dispatch failed")
	}

	observeOutcome(OutcomeAccepted, start)
	return OutcomeAccepted, nil
}

// Run consumes inbound events from ch until ctx is cancelled or ch is
// closed. Each event is processed on its own goroutine so one user's slow
// store access never delays unrelated users; same-user read-modify-write
// sequences are still serialized by the per-user lock table. Run returns
// after all in-flight events have finished.
func (p *Pipeline) Run(ctx context.Context, ch <-chan domain.MessageEvent) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := p.Process(ctx, ev); err != nil {
					// A single message's failure must never take down the
					// loop; the outcome and error were already recorded.
					p.Log.Error().Err(err).Str("message_id", ev.ID).Msg("pipeline run error")
				}
			}()
		}
	}
}

// advanceEngagement performs the serialized fetch-or-create → advance →
// persist sequence for one author and one message.
func (p *Pipeline) advanceEngagement(ctx context.Context, userID string) (leveledUp bool, newLevel int, err error) {
	pipelineInflight.Inc()
	defer pipelineInflight.Dec()

	lock := p.locks.get(userID)
	lock.Lock()
	defer lock.Unlock()

	lvl, err := repoGetOrCreateLevel(ctx, p.DB, userID)
	if err != nil {
		return false, 0, err
	}

	newXP, newLvl, up := moderation.Advance(lvl.XP, lvl.Level, p.XPPerLevel)
	if err := repoUpdateLevel(ctx, p.DB, userID, newXP, newLvl); err != nil {
		return false, 0, err
	}
	return up, newLvl, nil
}

// --- notification helpers -------------------------------------------------
//
// Transport failures are logged and swallowed: the pipeline never blocks on
// notification delivery, and an undeliverable notice must not change the
// message's moderation outcome.

func (p *Pipeline) notifyDelete(ctx context.Context, ev domain.MessageEvent) {
	if err := p.Notifier.DeleteMessage(ctx, ev.ChannelID, ev.ID); err != nil {
		p.Log.Warn().Err(err).Str("message_id", ev.ID).Msg("delete failed")
	}
}

func (p *Pipeline) notifyEphemeral(ctx context.Context, channelID, text string) {
	if err := p.Notifier.SendEphemeralNotice(ctx, channelID, text, ephemeralNoticeTTL); err != nil {
		p.Log.Warn().Err(err).Str("channel_id", channelID).Msg("ephemeral notice failed")
	}
}

func (p *Pipeline) notifyNotice(ctx context.Context, channelID, text string) {
	if err := p.Notifier.SendNotice(ctx, channelID, text); err != nil {
		p.Log.Warn().Err(err).Str("channel_id", channelID).Msg("notice failed")
	}
}

func (p *Pipeline) notifyLog(ctx context.Context, guildID, text string) {
	if err := p.Notifier.SendLog(ctx, guildID, text); err != nil {
		p.Log.Warn().Err(err).Str("guild_id", guildID).Msg("guild log failed")
	}
}
