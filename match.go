// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fuzzycache

import (
	"net/url"
	"sort"
	"time"

	"github.com/traylinx/fuzzycache/embedding"
)

// embedFn resolves (text, model) to an embedding vector. The orchestrator
// passes the memoizer's Embed here so repeated similarity fields reuse
// vectors across candidates and calls.
type embedFn func(text, model string) ([]float32, error)

// HitKind classifies a cache lookup result.
type HitKind string

const (
	// HitMiss means no usable candidate was found and the wrapped
	// function was invoked.
	HitMiss HitKind = "miss"

	// HitExact means every field of the winning candidate matched
	// precisely.
	HitExact HitKind = "exact"

	// HitFuzzy means at least one field matched approximately.
	HitFuzzy HitKind = "fuzzy"
)

// HitInfo describes how a lookup was satisfied. Score is an additive
// ranking aggregate, not a normalized quality percentage; it is meaningful
// only relative to other candidates scored in the same lookup.
type HitInfo struct {
	Kind  HitKind
	Score float64
}

// scoreResult is the outcome of scoring one candidate against a request.
type scoreResult struct {
	// ok reports whether the candidate is usable at all.
	ok bool

	// score is the sum of per-field contributions: +1 for an exact or
	// URL or more-is-better match, +similarity for a cosine match.
	score float64

	// exact is true iff no field triggered a fuzzy downgrade.
	exact bool
}

// score decides whether candidate can satisfy requested under specs and
// computes its ranking score. Any single disqualifying field makes the
// whole candidate unusable; there is no partial credit. Fields are
// evaluated in sorted key order so the walk is deterministic.
func score(requested, candidate Params, specs map[string]FieldSpec, embed embedFn) scoreResult {
	fields := make([]string, 0, len(requested))
	for f := range requested {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	result := scoreResult{ok: true, exact: true}
	for _, field := range fields {
		reqVal := requested[field]
		candVal, present := candidate[field]
		if !present {
			return scoreResult{}
		}

		spec, fuzzy := specs[field]
		if !fuzzy {
			if !valuesEqual(reqVal, candVal) {
				return scoreResult{}
			}
			result.score++
			continue
		}

		switch spec.kind {
		case specExactURL:
			reqStr, okReq := asString(reqVal)
			candStr, okCand := asString(candVal)
			if !okReq || !okCand {
				return scoreResult{}
			}
			if normalizeURL(reqStr, spec.excludeHash) != normalizeURL(candStr, spec.excludeHash) {
				return scoreResult{}
			}
			result.score++

		case specMoreIsBetter:
			reqNum, okReq := asFloat(reqVal)
			candNum, okCand := asFloat(candVal)
			if !okReq || !okCand {
				return scoreResult{}
			}
			if candNum < reqNum {
				return scoreResult{}
			}
			if candNum > reqNum {
				result.exact = false
			}
			result.score++

		case specCosine:
			reqStr, okReq := asString(reqVal)
			candStr, okCand := asString(candVal)
			if !okReq || !okCand {
				return scoreResult{}
			}
			reqVec, err := embed(reqStr, spec.model)
			if err != nil {
				return scoreResult{}
			}
			candVec, err := embed(candStr, spec.model)
			if err != nil {
				return scoreResult{}
			}
			similarity := embedding.Cosine(reqVec, candVec)
			if similarity < spec.threshold {
				return scoreResult{}
			}
			if similarity < 1 {
				result.exact = false
			}
			result.score += similarity

		default:
			return scoreResult{}
		}
	}

	return result
}

// matchBest scans entries for the best usable candidate. Entries older than
// ttl are skipped; entries exactly at the boundary are still fresh.
// Disqualified candidates are dropped, including every candidate whose
// similarity fields failed to embed: embedding-provider instability is
// contained here and never propagates out of a lookup. Among usable
// candidates the strictly highest score wins; ties keep the earliest
// appended entry.
func matchBest(now time.Time, ttl time.Duration, requested Params, entries []*entry, specs map[string]FieldSpec, embed embedFn) (*entry, HitInfo, bool) {
	var best *entry
	var bestScore float64
	bestExact := false

	for _, e := range entries {
		if now.Sub(e.createdAt) > ttl {
			continue
		}
		r := score(requested, e.params, specs, embed)
		if !r.ok {
			continue
		}
		if best == nil || r.score > bestScore {
			best = e
			bestScore = r.score
			bestExact = r.exact
		}
	}

	if best == nil {
		return nil, HitInfo{Kind: HitMiss}, false
	}

	kind := HitFuzzy
	if bestExact {
		kind = HitExact
	}
	return best, HitInfo{Kind: kind, Score: bestScore}, true
}

// normalizeURL parses raw as a URL and re-serializes it, stripping the
// fragment when excludeHash is set. Strings that do not parse are returned
// unmodified so non-URL values degrade to raw comparison.
func normalizeURL(raw string, excludeHash bool) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if excludeHash {
		u.Fragment = ""
		u.RawFragment = ""
	}
	return u.String()
}
