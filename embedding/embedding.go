// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package embedding defines the raw-embedding provider contract, a
// process-lifetime memoizer over it, and cosine similarity over embedding
// vectors. A ready-made local ONNX provider lives alongside the contract;
// any other implementation can be injected instead.
package embedding

import (
	"math"
	"sync"
)

// Provider computes an embedding vector for text under a named model.
// Implementations must be safe to call concurrently and redundantly: the
// memoizer may invoke Embed more than once for the same inputs under racing
// misses.
type Provider interface {
	Embed(text, model string) ([]float32, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(text, model string) ([]float32, error)

// Embed calls f.
func (f ProviderFunc) Embed(text, model string) ([]float32, error) {
	return f(text, model)
}

// memoKey is the vector cache key; value-equal keys collapse to one
// memoized vector.
type memoKey struct {
	text  string
	model string
}

// Memoizer caches provider results per (text, model) for the process
// lifetime. Provider failures propagate to the caller unchanged and are not
// memoized; failure handling belongs to the caller.
type Memoizer struct {
	provider Provider

	// mu protects vectors
	mu      sync.RWMutex
	vectors map[memoKey][]float32
}

// NewMemoizer wraps provider with per-process memoization.
func NewMemoizer(provider Provider) *Memoizer {
	return &Memoizer{
		provider: provider,
		vectors:  make(map[memoKey][]float32),
	}
}

// Embed returns the memoized vector for (text, model), computing it via the
// provider on first use. The provider runs outside the lock, so concurrent
// misses on the same key may invoke it more than once; the last write wins.
// Callers must not depend on exactly-once provider invocation under races.
func (m *Memoizer) Embed(text, model string) ([]float32, error) {
	k := memoKey{text: text, model: model}

	m.mu.RLock()
	v, ok := m.vectors[k]
	m.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := m.provider.Embed(text, model)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.vectors[k] = v
	m.mu.Unlock()

	return v, nil
}

// Len returns the number of memoized vectors.
func (m *Memoizer) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}

// Cosine computes the cosine similarity of two embedding vectors: the dot
// product over the product of magnitudes. It returns exactly 0, never NaN,
// when the lengths differ, either vector is empty, or either magnitude is
// zero.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (normA * normB)
}
