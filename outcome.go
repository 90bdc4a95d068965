// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fuzzycache

import "context"

// Outcome is a tagged capture of a computation's success value or failure.
// Representing failure as data lets the cache store it alongside successes
// and replay it faithfully at a later call site: a wrapped function that
// failed for some input keeps failing the same way on matching lookups
// instead of being retried.
type Outcome struct {
	Value any
	Err   error
}

// Failed reports whether the captured computation failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// replay hands the captured outcome back to a caller as if the computation
// had just run.
func (o Outcome) replay() (any, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Value, nil
}

// captureOutcome runs fn and captures its full result as data. A failing fn
// never escapes as an error here; the failure becomes part of the outcome
// and is replayed to the caller after the entry is stored.
func captureOutcome(ctx context.Context, fn Func, params Params) Outcome {
	v, err := fn(ctx, params)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Value: v}
}
