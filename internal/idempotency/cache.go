// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package idempotency implements the process-wide deduplication cache used
// by the webhook pipeline.
//
// The cache maps a deduplication key (taken from a request header) to the
// response produced by the first delivery carrying that key. A reservation
// is inserted atomically before the handler runs, so two near-simultaneous
// duplicates can never both reach the handler: the loser of the race blocks
// until the winner's response is committed and then replays it.
//
// The cache is an owned component constructed at startup and injected into
// the pipeline; all compound operations take the one internal mutex.
package idempotency

import (
	"sync"
	"time"

	"github.com/MKhiriev/go-hook-gate/internal/logger"
)

// compactThreshold bounds unswept growth: once the map holds more entries,
// the next reservation drops expired ones inline before inserting.
const compactThreshold = 2048

// CachedResponse is the replayable part of a response: enough to answer a
// duplicate delivery byte-identically without invoking the handler again.
type CachedResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Outcome reports how Reserve resolved a key.
type Outcome int

const (
	// OutcomeReserved means the caller now owns the key and must invoke the
	// handler, then either Commit or Release.
	OutcomeReserved Outcome = iota

	// OutcomeReplay means a previous delivery already produced a response;
	// the caller must replay it and must not invoke the handler.
	OutcomeReplay
)

// entry is one cached key. Until the owning request finishes, resp is nil
// and done is open; Commit fills resp and closes done, Release deletes the
// entry and closes done so blocked duplicates re-race for the key.
type entry struct {
	done      chan struct{}
	resp      *CachedResponse
	expiresAt time.Time
}

// committed reports whether a final response has been stored.
// Callers must hold the cache mutex.
func (e *entry) committed() bool {
	return e.resp != nil
}

// Cache is the idempotency store. The zero value is not usable; construct
// with NewCache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	ttl time.Duration
	now func() time.Time
	log *logger.Logger
}

// NewCache constructs a Cache whose committed entries live for ttl.
func NewCache(ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
		log:     log,
	}
}

// Reserve resolves key to either a reservation owned by the caller or a
// replayable response.
//
// The check-and-reserve is a single operation under the cache mutex: a key
// with no live entry is claimed by inserting a reservation before the mutex
// is dropped. A key with an in-flight reservation blocks the caller (outside
// the mutex) until the owner commits or releases, then resolves again, so
// every duplicate of a delivery observes the same final response.
func (c *Cache) Reserve(key string) (Outcome, *CachedResponse) {
	for {
		c.mu.Lock()
		e, ok := c.entries[key]
		if ok {
			if e.committed() {
				if c.now().Before(e.expiresAt) {
					resp := e.resp
					c.mu.Unlock()
					return OutcomeReplay, resp
				}
				// expired: drop and fall through to a fresh reservation
				delete(c.entries, key)
			} else {
				done := e.done
				c.mu.Unlock()
				<-done
				continue
			}
		}

		if len(c.entries) > compactThreshold {
			c.sweepLocked()
		}

		c.entries[key] = &entry{done: make(chan struct{})}
		c.mu.Unlock()
		return OutcomeReserved, nil
	}
}

// Commit stores the final response for a key reserved by the caller and
// starts its TTL. Committing a key that was never reserved, or was already
// committed, is a no-op: the cache degrades to re-executing handlers rather
// than ever serving a wrong response.
func (c *Cache) Commit(key string, resp *CachedResponse) {
	if resp == nil {
		c.Release(key)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.committed() {
		return
	}

	e.resp = resp
	e.expiresAt = c.now().Add(c.ttl)
	close(e.done)
}

// Release abandons a reservation after a failed handler run. The entry is
// removed and any blocked duplicates re-race for the key, so a retried
// delivery is never deduplicated against an attempt that produced nothing.
func (c *Cache) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.committed() {
		return
	}

	delete(c.entries, key)
	close(e.done)
}

// Sweep removes expired committed entries and returns how many were
// dropped. In-flight reservations are never touched.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sweepLocked()
}

// sweepLocked implements Sweep. Callers must hold the cache mutex.
func (c *Cache) sweepLocked() int {
	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if e.committed() && !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	if removed > 0 && c.log != nil {
		c.log.Debug().Int("removed", removed).Int("remaining", len(c.entries)).Msg("idempotency sweep")
	}
	return removed
}

// Len returns the number of live entries, reservations included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
