// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package embedding

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genVector produces small non-degenerate float32 vectors.
func genVector() gopter.Gen {
	return gen.SliceOfN(4, gen.Float32Range(-100, 100))
}

func magnitude(v []float32) float64 {
	var m float64
	for _, x := range v {
		m += float64(x) * float64(x)
	}
	return math.Sqrt(m)
}

func TestProperty_CosineSelfSimilarityIsOne(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cosine(v, v) == 1 for non-zero v", prop.ForAll(
		func(v []float32) bool {
			if magnitude(v) == 0 {
				return Cosine(v, v) == 0
			}
			return math.Abs(Cosine(v, v)-1) < 1e-6
		},
		genVector(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CosineIsCommutative(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cosine(a, b) == cosine(b, a)", prop.ForAll(
		func(a, b []float32) bool {
			return math.Abs(Cosine(a, b)-Cosine(b, a)) < 1e-9
		},
		genVector(),
		genVector(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CosineZeroMagnitudeIsExactlyZero(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cosine with a zero vector is exactly 0", prop.ForAll(
		func(v []float32) bool {
			zero := make([]float32, len(v))
			return Cosine(v, zero) == 0 && Cosine(zero, v) == 0
		},
		genVector(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_CosineIsBounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("cosine is within [-1, 1] and never NaN", prop.ForAll(
		func(a, b []float32) bool {
			c := Cosine(a, b)
			return !math.IsNaN(c) && c >= -1-1e-9 && c <= 1+1e-9
		},
		genVector(),
		genVector(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
