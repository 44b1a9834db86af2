package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nqAtomic/my-discord-bott/internal/domain"
	"github.com/nqAtomic/my-discord-bott/internal/moderation"
	"github.com/nqAtomic/my-discord-bott/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:pipeline_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Warning{}, &domain.UserLevel{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// recordingNotifier captures every action the pipeline requests.
type recordingNotifier struct {
	mu         sync.Mutex
	deleted    []string // message IDs
	notices    []string
	ephemerals []string
	logs       []string
	failAll    bool
}

func (n *recordingNotifier) DeleteMessage(_ context.Context, _, messageID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, messageID)
	if n.failAll {
		return errors.New("transport down")
	}
	return nil
}

func (n *recordingNotifier) SendNotice(_ context.Context, _, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, text)
	if n.failAll {
		return errors.New("transport down")
	}
	return nil
}

func (n *recordingNotifier) SendEphemeralNotice(_ context.Context, _, text string, _ time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ephemerals = append(n.ephemerals, text)
	if n.failAll {
		return errors.New("transport down")
	}
	return nil
}

func (n *recordingNotifier) SendLog(_ context.Context, _, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.logs = append(n.logs, text)
	if n.failAll {
		return errors.New("transport down")
	}
	return nil
}

func (n *recordingNotifier) counts() (deleted, notices, ephemerals, logs int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.deleted), len(n.notices), len(n.ephemerals), len(n.logs)
}

// recordingDispatcher captures messages offered to command dispatch.
type recordingDispatcher struct {
	mu  sync.Mutex
	got []domain.MessageEvent
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev domain.MessageEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.got = append(d.got, ev)
	return nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.got)
}

func newTestPipeline(t *testing.T, db *gorm.DB) (*Pipeline, *recordingNotifier, *recordingDispatcher) {
	t.Helper()
	n := &recordingNotifier{}
	d := &recordingDispatcher{}
	p := NewPipeline(db,
		moderation.NewFilter([]string{"badword1", "badword2"}),
		moderation.NewTracker(5*time.Second, 6),
		n, d, 50, zerolog.Nop())
	return p, n, d
}

func msg(id, author, content string, at time.Time) domain.MessageEvent {
	return domain.MessageEvent{
		ID:        id,
		GuildID:   "g1",
		ChannelID: "c1",
		AuthorID:  author,
		Content:   content,
		Timestamp: at,
	}
}

func TestProcess_CleanMessage_NewUser(t *testing.T) {
	db := newTestDB(t)
	p, n, d := newTestPipeline(t, db)
	ctx := context.Background()

	out, err := p.Process(ctx, msg("m1", "u1", "hello there", time.Now()))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out != OutcomeAccepted {
		t.Fatalf("outcome = %v, want accepted", out)
	}

	lvl, err := repo.GetLevel(ctx, db, "u1")
	if err != nil {
		t.Fatalf("engagement row missing: %v", err)
	}
	if lvl.XP != 1 || lvl.Level != 0 {
		t.Fatalf("first message engagement = %d/%d, want 1/0", lvl.XP, lvl.Level)
	}

	deleted, notices, ephemerals, logs := n.counts()
	if deleted != 0 || notices != 0 || ephemerals != 0 || logs != 0 {
		t.Fatalf("clean accepted message must be silent, got %d/%d/%d/%d", deleted, notices, ephemerals, logs)
	}
	if d.count() != 1 {
		t.Fatalf("accepted message must be dispatched exactly once, got %d", d.count())
	}
}

func TestProcess_ContentViolation(t *testing.T) {
	db := newTestDB(t)
	p, n, d := newTestPipeline(t, db)
	ctx := context.Background()

	out, err := p.Process(ctx, msg("m1", "u1", "you are a BADWORD1 user", time.Now()))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out != OutcomeContentBlocked {
		t.Fatalf("outcome = %v, want content_blocked", out)
	}

	deleted, _, ephemerals, logs := n.counts()
	if deleted != 1 || ephemerals != 1 || logs != 1 {
		t.Fatalf("blocked message: deleted=%d ephemerals=%d logs=%d, want 1/1/1", deleted, ephemerals, logs)
	}

	// No engagement, no spam tracking, no dispatch for a blocked message.
	if _, err := repo.GetLevel(ctx, db, "u1"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("blocked message must not create an engagement row, got %v", err)
	}
	if p.Spam.Len("u1") != 0 {
		t.Fatalf("blocked message must not enter the spam window")
	}
	if d.count() != 0 {
		t.Fatalf("blocked message must never reach command dispatch")
	}
}

func TestProcess_SpamBurst_SeventhSilentlyDeleted(t *testing.T) {
	db := newTestDB(t)
	p, n, d := newTestPipeline(t, db)
	ctx := context.Background()
	base := time.Now()

	// 7 messages within 2 seconds.
	for i := 0; i < 6; i++ {
		out, err := p.Process(ctx, msg(fmt.Sprintf("m%d", i), "u1", "hi", base.Add(time.Duration(i)*300*time.Millisecond)))
		if err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if out != OutcomeAccepted {
			t.Fatalf("message %d outcome = %v, want accepted", i, out)
		}
	}
	out, err := p.Process(ctx, msg("m7", "u1", "hi", base.Add(1900*time.Millisecond)))
	if err != nil {
		t.Fatalf("7th message: %v", err)
	}
	if out != OutcomeThrottled {
		t.Fatalf("7th outcome = %v, want throttled", out)
	}

	deleted, notices, ephemerals, logs := n.counts()
	if deleted != 1 {
		t.Fatalf("throttled message must be deleted, got %d deletes", deleted)
	}
	if notices != 0 || ephemerals != 0 || logs != 0 {
		t.Fatalf("throttling is silent: notices=%d ephemerals=%d logs=%d", notices, ephemerals, logs)
	}

	lvl, err := repo.GetLevel(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetLevel: %v", err)
	}
	if lvl.XP != 6 {
		t.Fatalf("xp = %d, want 6 (no leveling for the throttled message)", lvl.XP)
	}
	if d.count() != 6 {
		t.Fatalf("dispatched = %d, want 6 (rejected messages never dispatch)", d.count())
	}
}

func TestProcess_BotAuthorIgnored(t *testing.T) {
	db := newTestDB(t)
	p, n, d := newTestPipeline(t, db)

	ev := msg("m1", "botuser", "badword1 spam spam", time.Now())
	ev.AuthorIsBot = true

	out, err := p.Process(context.Background(), ev)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out != OutcomeIgnored {
		t.Fatalf("outcome = %v, want ignored", out)
	}
	deleted, notices, ephemerals, logs := n.counts()
	if deleted+notices+ephemerals+logs != 0 || d.count() != 0 {
		t.Fatalf("ignored message must have no side effects")
	}
}

func TestProcess_MalformedEvent(t *testing.T) {
	db := newTestDB(t)
	p, _, _ := newTestPipeline(t, db)
	ctx := context.Background()

	ev := msg("m1", "", "hello", time.Now()) // missing author
	out, err := p.Process(ctx, ev)
	if out != OutcomeRejectedMalformed {
		t.Fatalf("outcome = %v, want malformed", out)
	}
	if !errors.Is(err, domain.ErrMalformedEvent) {
		t.Fatalf("expected ErrMalformedEvent, got %v", err)
	}

	var count int64
	if err := db.Model(&domain.UserLevel{}).Count(&count).Error; err != nil || count != 0 {
		t.Fatalf("malformed event must not mutate state (count=%d err=%v)", count, err)
	}
}

func TestProcess_LevelUpNotice(t *testing.T) {
	db := newTestDB(t)
	p, n, _ := newTestPipeline(t, db)
	ctx := context.Background()

	if _, err := repo.GetOrCreateLevel(ctx, db, "u1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.UpdateLevel(ctx, db, "u1", 49, 0); err != nil {
		t.Fatalf("seed xp: %v", err)
	}

	out, err := p.Process(ctx, msg("m1", "u1", "the 50th message", time.Now()))
	if err != nil || out != OutcomeAccepted {
		t.Fatalf("Process: out=%v err=%v", out, err)
	}

	lvl, _ := repo.GetLevel(ctx, db, "u1")
	if lvl.XP != 50 || lvl.Level != 1 {
		t.Fatalf("engagement = %d/%d, want 50/1", lvl.XP, lvl.Level)
	}
	_, notices, _, _ := n.counts()
	if notices != 1 {
		t.Fatalf("level-up must emit exactly one notice, got %d", notices)
	}
}

func TestProcess_NotifierFailureDoesNotBlockPipeline(t *testing.T) {
	db := newTestDB(t)
	p, n, _ := newTestPipeline(t, db)
	n.failAll = true
	ctx := context.Background()

	out, err := p.Process(ctx, msg("m1", "u1", "badword2 inside", time.Now()))
	if err != nil {
		t.Fatalf("transport failures must not surface: %v", err)
	}
	if out != OutcomeContentBlocked {
		t.Fatalf("outcome = %v, want content_blocked", out)
	}

	// And a later clean message still processes normally.
	out, err = p.Process(ctx, msg("m2", "u1", "fine now", time.Now()))
	if err != nil || out != OutcomeAccepted {
		t.Fatalf("pipeline must survive transport failures: out=%v err=%v", out, err)
	}
}

func TestProcess_StoreUnavailable(t *testing.T) {
	db := newTestDB(t)
	p, n, _ := newTestPipeline(t, db)
	ctx := context.Background()

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	_ = sqlDB.Close()

	out, err := p.Process(ctx, msg("m1", "u1", "hello", time.Now()))
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if out != OutcomeAccepted {
		t.Fatalf("outcome = %v; the checks passed, only persistence failed", out)
	}

	// The failure stayed on the engagement sub-step: no moderation actions
	// were issued for the message.
	deleted, notices, ephemerals, logs := n.counts()
	if deleted+notices+ephemerals+logs != 0 {
		t.Fatalf("store failure must not trigger moderation actions")
	}
}

func TestProcess_ConcurrentSameUser_NoLostUpdates(t *testing.T) {
	db := newTestDB(t)
	n := &recordingNotifier{}
	d := &recordingDispatcher{}
	// Threshold high enough that the burst is never throttled.
	p := NewPipeline(db,
		moderation.NewFilter(nil),
		moderation.NewTracker(5*time.Second, 10_000),
		n, d, 50, zerolog.Nop())
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			ev := msg(fmt.Sprintf("m%d", i), "u1", "hi", time.Now().Add(time.Duration(i)*time.Microsecond))
			if _, err := p.Process(ctx, ev); err != nil {
				t.Errorf("Process: %v", err)
			}
		}(i)
	}
	wg.Wait()

	lvl, err := repo.GetLevel(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetLevel: %v", err)
	}
	if lvl.XP != workers {
		t.Fatalf("xp = %d, want %d (lost update)", lvl.XP, workers)
	}
	if lvl.Level != 1 {
		t.Fatalf("level = %d, want 1 (crossed the 50 threshold exactly once)", lvl.Level)
	}
	_, notices, _, _ := n.counts()
	if notices != 1 {
		t.Fatalf("level-up notices = %d, want exactly 1", notices)
	}
}

func TestPipeline_Run_ConsumesQueue(t *testing.T) {
	db := newTestDB(t)
	p, _, d := newTestPipeline(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan domain.MessageEvent)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, ch)
		close(done)
	}()

	base := time.Now()
	for i := 0; i < 3; i++ {
		ch <- msg(fmt.Sprintf("m%d", i), fmt.Sprintf("u%d", i), "hello", base.Add(time.Duration(i)*time.Second))
	}
	close(ch)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not drain the queue")
	}
	if d.count() != 3 {
		t.Fatalf("dispatched = %d, want 3", d.count())
	}
}
