// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package fuzzycache is a fuzzy result cache for expensive, deterministic
// asynchronous computations such as LLM calls, embeddings, or web
// summarization. Unlike exact memoization, a result computed for one
// parameter set may satisfy a similar request under per-field matching
// rules: semantic similarity via embeddings, normalized-URL equality, and
// "more capable substitutes for less" numeric ordering. Both successful and
// failed outcomes are cached, so repeated failing calls are not retried,
// and embedding lookups are memoized for the process lifetime.
//
// The cache is process-local and in-memory only. It never prunes entries,
// never deduplicates concurrent identical computations, and offers no
// consistency stronger than "a lookup sees a snapshot of the store";
// duplicate work under racing misses is tolerated.
package fuzzycache

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/traylinx/fuzzycache/embedding"
)

// Func is the signature of a wrapped computation in plain mode. The
// computation must be referentially transparent with respect to its
// parameter set: identical params make any past outcome acceptable. The
// context passes through the cache untouched.
type Func func(ctx context.Context, params Params) (any, error)

// FuncWithInfo is the metadata-mode signature. HitInfo reports how the call
// was satisfied; it is populated on every return, including replays of
// cached failures, since Go's multiple return values give the failure path
// a natural side channel.
type FuncWithInfo func(ctx context.Context, params Params) (any, HitInfo, error)

// Cache owns the shared state behind every wrapper built from it: the
// per-name entry store and the embedding memoizer. One Cache serves many
// logical caches, keyed by Config.Name.
type Cache struct {
	store *entryStore
	memo  *embedding.Memoizer
	clock func() time.Time
	log   *log.Entry
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) { c.clock = clock }
}

// WithLogger overrides the logrus entry used for per-call traces.
func WithLogger(entry *log.Entry) Option {
	return func(c *Cache) { c.log = entry }
}

// New creates a Cache backed by the given raw-embedding provider. The
// provider is only consulted through the memoizer, so each distinct
// (text, model) pair is computed once per process under normal operation.
func New(provider embedding.Provider, opts ...Option) *Cache {
	c := &Cache{
		store: newEntryStore(),
		memo:  embedding.NewMemoizer(provider),
		clock: time.Now,
		log:   log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wrap builds a plain-mode wrapper around fn. The wrapper has the same call
// contract as fn: failures look exactly like failures of the unwrapped
// function, whether freshly computed or replayed from cache.
func (c *Cache) Wrap(cfg Config, fn Func) Func {
	withInfo := c.WrapWithInfo(cfg, fn)
	return func(ctx context.Context, params Params) (any, error) {
		v, _, err := withInfo(ctx, params)
		return v, err
	}
}

// WrapWithInfo builds a metadata-mode wrapper around fn. A freshly computed
// result always reports {HitMiss, 0}; replays report the winning
// candidate's kind and score.
//
// Configuration is checked once at wrap time. A wrapper built from an
// invalid configuration is permanently inert and returns the same
// ErrInvalidConfig-wrapped error on every invocation.
func (c *Cache) WrapWithInfo(cfg Config, fn Func) FuncWithInfo {
	cfgErr := cfg.validate()
	specs := cfg.FuzzyParams
	logger := c.log.WithField("cache", cfg.Name)

	return func(ctx context.Context, params Params) (any, HitInfo, error) {
		if cfgErr != nil {
			return nil, HitInfo{Kind: HitMiss}, cfgErr
		}

		now := c.clock()
		ttl := cfg.effectiveTTL()
		entries := c.store.getAll(cfg.Name)

		if e, info, ok := matchBest(now, ttl, params, entries, specs, c.memo.Embed); ok {
			logger.WithFields(log.Fields{
				"entry":      e.id,
				"kind":       info.Kind,
				"score":      info.Score,
				"candidates": len(entries),
				"failed":     e.outcome.Failed(),
			}).Debug("cache hit, replaying stored outcome")
			v, err := e.outcome.replay()
			return v, info, err
		}

		outcome := captureOutcome(ctx, fn, params)
		e := newEntry(params, outcome, now)
		if err := c.store.put(cfg.Name, e); err != nil {
			// A lost write is correctness-affecting, unlike a fuzzy
			// miss. Surface it instead of silently recomputing later.
			return nil, HitInfo{Kind: HitMiss}, fmt.Errorf("fuzzycache: store entry for %q: %w", cfg.Name, err)
		}
		logger.WithFields(log.Fields{
			"entry":      e.id,
			"candidates": len(entries),
			"failed":     outcome.Failed(),
		}).Debug("cache miss, stored fresh outcome")

		v, err := outcome.replay()
		return v, HitInfo{Kind: HitMiss, Score: 0}, err
	}
}

// Embeddings exposes the embedding memoizer, mainly so callers can observe
// or prewarm the vector cache.
func (c *Cache) Embeddings() *embedding.Memoizer {
	return c.memo
}

// Size returns the number of entries stored under the named cache.
func (c *Cache) Size(name string) int {
	return c.store.size(name)
}
