package moderation

import (
	"sync"
	"time"
)

// window holds one user's recent message timestamps plus its own lock, so
// operations on different users never contend. lastSeen supports eviction
// of idle entries.
type window struct {
	mu       sync.Mutex
	stamps   []time.Time
	lastSeen time.Time
}

// Tracker keeps a per-user sliding time window of recent message arrivals
// and throttles users whose rate exceeds the threshold within the window.
//
// Windows are process-local and never persisted; losing them on restart is
// acceptable (spam detection is a soft protection). Entries idle for longer
// than ten windows are evicted opportunistically during lookups, the same
// bounded-memory approach the HTTP rate limiter uses for its buckets.
//
// Tracker is safe for concurrent use. Append-and-prune for a given user is
// atomic relative to other operations on the same user; different users
// proceed fully in parallel.
type Tracker struct {
	win       time.Duration // window length, e.g. 5s
	threshold int           // max messages tolerated within the window

	mu       sync.Mutex
	users    map[string]*window
	cleanupN uint64
}

// NewTracker constructs a Tracker with the given window length and message
// threshold. A threshold <= 0 is coerced to 1.
func NewTracker(win time.Duration, threshold int) *Tracker {
	if threshold <= 0 {
		threshold = 1
	}
	return &Tracker{
		win:       win,
		threshold: threshold,
		users:     make(map[string]*window),
	}
}

// RecordAndCheck appends now to the user's window, prunes entries older
// than the window length relative to now, and reports whether the message
// should be throttled (pruned length exceeds the threshold).
//
// The triggering message's own timestamp stays in the window even when the
// result is throttled: sustained flooding keeps the user throttled until
// the rate naturally drops below the threshold within any window span.
func (t *Tracker) RecordAndCheck(userID string, now time.Time) (throttled bool) {
	w := t.getWindow(userID, now)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.stamps = append(w.stamps, now)
	cutoff := now.Add(-t.win)
	kept := w.stamps[:0]
	for _, s := range w.stamps {
		if s.After(cutoff) {
			kept = append(kept, s)
		}
	}
	w.stamps = kept
	return len(w.stamps) > t.threshold
}

// getWindow returns (and touches) the window for userID, creating it if
// absent. Idle windows are evicted after a threshold of lookups, before the
// requested entry is refreshed, so a stale window for the requested user
// can still be dropped.
func (t *Tracker) getWindow(userID string, now time.Time) *window {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cleanupN++
	if t.cleanupN >= 5000 {
		idle := 10 * t.win
		for id, w := range t.users {
			if now.Sub(w.lastSeen) >= idle {
				delete(t.users, id)
			}
		}
		t.cleanupN = 0
	}

	if w, ok := t.users[userID]; ok {
		w.lastSeen = now
		return w
	}
	w := &window{lastSeen: now}
	t.users[userID] = w
	return w
}

// Len reports the current (unpruned) window length for userID. Used by
// tests; returns 0 for unknown users.
func (t *Tracker) Len(userID string) int {
	t.mu.Lock()
	w, ok := t.users[userID]
	t.mu.Unlock()
	if !ok {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.stamps)
}
