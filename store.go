// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fuzzycache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// entry is one immutable cache record. Entries are only ever appended;
// nothing edits an entry in place after creation.
type entry struct {
	// id correlates log lines for this entry across store and replay.
	id string

	// params is the parameter set the outcome was computed for.
	params Params

	// outcome is the captured success or failure.
	outcome Outcome

	// createdAt drives TTL freshness checks.
	createdAt time.Time
}

func newEntry(params Params, outcome Outcome, createdAt time.Time) *entry {
	return &entry{
		id:        uuid.NewString(),
		params:    params,
		outcome:   outcome,
		createdAt: createdAt,
	}
}

// entryStore holds the per-cache-name ordered entry lists. One store
// instance serves many logical caches, keyed by name.
//
// The store never deduplicates: storing the same parameter set twice yields
// two entries, and ranking duplicates is the matcher's job. It also never
// prunes; unbounded growth over process lifetime is a documented v1
// limitation.
type entryStore struct {
	// mu protects entries
	mu sync.RWMutex

	// entries maps cache name to its append-ordered entry list
	entries map[string][]*entry
}

func newEntryStore() *entryStore {
	return &entryStore{entries: make(map[string][]*entry)}
}

// getAll returns a snapshot of the entries stored under name, in append
// order. Unknown names yield an empty slice. Entries appended concurrently
// after the snapshot is taken are not visible to the caller.
func (s *entryStore) getAll(name string) []*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.entries[name]
	snapshot := make([]*entry, len(stored))
	copy(snapshot, stored)
	return snapshot
}

// put appends e under name. Appends are atomic with respect to each other:
// concurrent puts never lose an entry, though their relative order is as
// observed rather than globally deterministic.
func (s *entryStore) put(name string, e *entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[name] = append(s.entries[name], e)
	return nil
}

// size returns the number of entries stored under name.
func (s *entryStore) size(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[name])
}
