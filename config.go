// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fuzzycache

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultTTL is the entry freshness window used when Config.TTL is zero.
const DefaultTTL = 24 * time.Hour

// ErrInvalidConfig is returned (wrapped) by every invocation of a wrapper
// built from an invalid configuration. A wrapper with a bad configuration is
// permanently inert; the error is a contract violation, not a runtime
// condition to retry.
var ErrInvalidConfig = errors.New("fuzzycache: invalid configuration")

// specKind discriminates the fuzzy field specification union.
type specKind int

const (
	specExactURL specKind = iota + 1
	specMoreIsBetter
	specCosine
)

// FieldSpec declares how one parameter field may be approximately matched
// instead of requiring exact equality. Construct values with ExactURL,
// MoreIsBetter, or CosineSimilarity; the zero value is rejected at wrap
// time. Fields without a FieldSpec are exact-match fields.
type FieldSpec struct {
	kind        specKind
	excludeHash bool
	threshold   float64
	model       string
}

// ExactURL matches string URL fields by normalized-URL equality. Both sides
// are parsed as URLs and re-serialized before comparison; strings that do
// not parse are compared raw. When excludeHash is true the URL fragment is
// stripped, so links differing only in their #anchor compare equal.
func ExactURL(excludeHash bool) FieldSpec {
	return FieldSpec{kind: specExactURL, excludeHash: excludeHash}
}

// MoreIsBetter matches numeric fields by "more capable substitutes for
// less" ordering: a stored value satisfies a request when stored >=
// requested. An equal value keeps the match exact; a greater value
// downgrades it to fuzzy.
func MoreIsBetter() FieldSpec {
	return FieldSpec{kind: specMoreIsBetter}
}

// CosineSimilarity matches string fields by embedding similarity under the
// named model. Candidates below threshold are disqualified; a similarity of
// exactly 1 keeps the match exact, anything lower downgrades it to fuzzy.
func CosineSimilarity(threshold float64, model string) FieldSpec {
	return FieldSpec{kind: specCosine, threshold: threshold, model: model}
}

// validate checks a field spec for construction-time contract violations.
func (s FieldSpec) validate(field string) error {
	switch s.kind {
	case specExactURL, specMoreIsBetter:
		return nil
	case specCosine:
		if s.model == "" {
			return fmt.Errorf("field %q: cosine similarity requires a model name", field)
		}
		if math.IsNaN(s.threshold) || s.threshold < -1 || s.threshold > 1 {
			return fmt.Errorf("field %q: cosine threshold %v outside [-1, 1]", field, s.threshold)
		}
		return nil
	default:
		return fmt.Errorf("field %q: unrecognized field spec", field)
	}
}

// Config describes one logical cache.
type Config struct {
	// Name identifies the cache. Wrappers sharing a name share entries.
	Name string

	// FuzzyParams maps field names to their fuzzy matching rules.
	// Fields not listed here must match by exact value equality.
	FuzzyParams map[string]FieldSpec

	// TTL is the maximum entry age eligible for reuse. Zero selects
	// DefaultTTL; a negative value is a configuration error.
	TTL time.Duration
}

// validate checks the configuration. Violations surface lazily: the wrapper
// built from a bad configuration fails every invocation with the same error.
func (c Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: cache name is required", ErrInvalidConfig)
	}
	if c.TTL < 0 {
		return fmt.Errorf("%w: TTL must be positive, got %v", ErrInvalidConfig, c.TTL)
	}
	for field, spec := range c.FuzzyParams {
		if err := spec.validate(field); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// effectiveTTL returns the configured TTL or the 24h default.
func (c Config) effectiveTTL() time.Duration {
	if c.TTL == 0 {
		return DefaultTTL
	}
	return c.TTL
}
