package auth

import (
	"testing"
	"time"
)

func TestRevocationCutsOffEarlierTokens(t *testing.T) {
	r := NewRevocations(time.Hour)
	issuedBefore := time.Now().UTC().Add(-time.Minute)
	r.Revoke("u-1")
	if !r.Invalidated("u-1", issuedBefore) {
		t.Fatalf("token issued before the mark must be invalidated")
	}
	issuedAfter := time.Now().UTC().Add(time.Second)
	if r.Invalidated("u-1", issuedAfter) {
		t.Fatalf("token issued after the mark must stay valid")
	}
	if r.Invalidated("u-2", issuedBefore) {
		t.Fatalf("unmarked users are unaffected")
	}
}

func TestRevocationPruneDropsStaleMarks(t *testing.T) {
	r := NewRevocations(time.Minute)
	r.Revoke("u-1")
	r.mu.Lock()
	r.marks["u-1"] = time.Now().UTC().Add(-2 * time.Minute)
	r.mu.Unlock()
	r.prune()
	if r.Invalidated("u-1", time.Now().UTC().Add(-time.Hour)) {
		t.Fatalf("marks older than the max token TTL should be pruned")
	}
}
