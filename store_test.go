// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fuzzycache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryStore_PutAndGetAll(t *testing.T) {
	s := newEntryStore()
	now := time.Now()

	first := newEntry(Params{"i": 1}, Outcome{Value: 1}, now)
	second := newEntry(Params{"i": 2}, Outcome{Value: 2}, now)
	require.NoError(t, s.put("c", first))
	require.NoError(t, s.put("c", second))

	got := s.getAll("c")
	require.Len(t, got, 2)
	assert.Same(t, first, got[0], "entries keep append order")
	assert.Same(t, second, got[1])
	assert.Equal(t, 2, s.size("c"))
}

func TestEntryStore_UnknownNameIsEmpty(t *testing.T) {
	s := newEntryStore()
	assert.Empty(t, s.getAll("nope"))
	assert.Equal(t, 0, s.size("nope"))
}

func TestEntryStore_NoDeduplication(t *testing.T) {
	s := newEntryStore()
	now := time.Now()

	// Same parameter set stored twice yields two entries; ranking
	// duplicates is the matcher's job.
	require.NoError(t, s.put("c", newEntry(Params{"x": 1}, Outcome{Value: "a"}, now)))
	require.NoError(t, s.put("c", newEntry(Params{"x": 1}, Outcome{Value: "b"}, now)))
	assert.Equal(t, 2, s.size("c"))
}

func TestEntryStore_SnapshotIsolation(t *testing.T) {
	s := newEntryStore()
	now := time.Now()
	require.NoError(t, s.put("c", newEntry(Params{"i": 1}, Outcome{Value: 1}, now)))

	snapshot := s.getAll("c")
	require.NoError(t, s.put("c", newEntry(Params{"i": 2}, Outcome{Value: 2}, now)))

	assert.Len(t, snapshot, 1, "entries appended after the snapshot are not visible")
	assert.Len(t, s.getAll("c"), 2)
}

func TestEntryStore_ConcurrentPuts(t *testing.T) {
	s := newEntryStore()
	now := time.Now()

	const writers = 32
	const perWriter = 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				name := fmt.Sprintf("cache-%d", w%4)
				e := newEntry(Params{"w": w, "i": i}, Outcome{Value: i}, now)
				assert.NoError(t, s.put(name, e))
			}
		}(w)
	}
	wg.Wait()

	total := 0
	for n := 0; n < 4; n++ {
		total += s.size(fmt.Sprintf("cache-%d", n))
	}
	assert.Equal(t, writers*perWriter, total, "concurrent puts must never lose entries")
}

func TestEntryIDsAreUnique(t *testing.T) {
	now := time.Now()
	a := newEntry(Params{}, Outcome{}, now)
	b := newEntry(Params{}, Outcome{}, now)
	assert.NotEmpty(t, a.id)
	assert.NotEqual(t, a.id, b.id)
}
