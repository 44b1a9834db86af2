package services

import "sync"

// userLocks provides a mutual-exclusion scope per user identifier. The
// pipeline holds a user's lock across the whole "read engagement → advance
// → persist" sequence so concurrent messages from the same user cannot
// interleave their read-modify-write and lose updates. Messages from
// different users take different locks and proceed fully in parallel.
//
// Entries are never evicted: a *sync.Mutex handed out to one goroutine must
// stay the canonical lock for that user, and the map is bounded by the same
// user population as the levels table, which is itself never pruned.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the canonical lock for userID, creating it on first use.
func (ul *userLocks) get(userID string) *sync.Mutex {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	if l, ok := ul.locks[userID]; ok {
		return l
	}
	l := &sync.Mutex{}
	ul.locks[userID] = l
	return l
}
