package auth

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Revocations is the explicit "force re-resolve claims" hook. Claims are a
// snapshot cached in the token, so an admin action such as pulling a user's
// approver flag would otherwise stay ineffective until natural expiry. Marking
// a user here invalidates every token issued before the mark, forcing a fresh
// enrichment on their next request.
//
// The list lives in process memory: the gate must stay free of identity-store
// calls, and a mark only needs to outlive the longest token TTL.
type Revocations struct {
	mu     sync.Mutex
	marks  map[string]time.Time
	maxAge time.Duration
	cron   *cron.Cron
}

func NewRevocations(maxTokenTTL time.Duration) *Revocations {
	return &Revocations{
		marks:  make(map[string]time.Time),
		maxAge: maxTokenTTL,
	}
}

// Revoke marks the user; tokens issued at or before now become invalid.
func (r *Revocations) Revoke(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks[userID] = time.Now().UTC()
}

// Invalidated reports whether a token issued at issuedAt for the user has been
// cut off by a later revocation mark.
func (r *Revocations) Invalidated(userID string, issuedAt time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	mark, ok := r.marks[userID]
	if !ok {
		return false
	}
	return !issuedAt.After(mark)
}

// StartPruning removes marks older than the longest token TTL on a schedule;
// a token that old fails expiry anyway.
func (r *Revocations) StartPruning() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return
	}
	r.cron = cron.New()
	_, _ = r.cron.AddFunc("@every 10m", r.prune)
	r.cron.Start()
}

func (r *Revocations) StopPruning() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c != nil {
		c.Stop()
	}
}

func (r *Revocations) prune() {
	cutoff := time.Now().UTC().Add(-r.maxAge)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, mark := range r.marks {
		if mark.Before(cutoff) {
			delete(r.marks, id)
		}
	}
}
