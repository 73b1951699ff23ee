// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Maksim Melnik

package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// pendingOperation remembers what an outstanding token was issued for so
// the reply can be routed back to the affected resource.
type pendingOperation struct {
	Resource string
	Name     string
	SentAt   time.Time
}

// AckTracker assigns client-generated tokens to outgoing mutation requests
// and resolves each exactly once on the matching ack or error reply.
//
// Tokens never expire on their own: a reply that is lost forever leaves its
// token in the set until the session ends. PendingCount exposes the set
// size so leakage is at least observable.
type AckTracker struct {
	mu      sync.Mutex
	pending map[string]pendingOperation

	newID func() string
	now   func() time.Time
}

func NewAckTracker() *AckTracker {
	return &AckTracker{
		pending: make(map[string]pendingOperation),
		newID:   generateOpID,
		now:     time.Now,
	}
}

// Track issues a fresh token for a mutation against resource and records it
// as outstanding.
func (a *AckTracker) Track(resource, name string) string {
	opID := a.newID()

	a.mu.Lock()
	a.pending[opID] = pendingOperation{Resource: resource, Name: name, SentAt: a.now()}
	a.mu.Unlock()

	return opID
}

// Resolve removes the token and returns what it was issued for. The second
// return is false when the token is unknown or already resolved; callers
// treat that as a no-op.
func (a *AckTracker) Resolve(opID string) (pendingOperation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	op, ok := a.pending[opID]
	if ok {
		delete(a.pending, opID)
	}
	return op, ok
}

// PendingCount returns the number of outstanding tokens.
func (a *AckTracker) PendingCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

func generateOpID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}
