// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fuzzycache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "minimal valid config",
			cfg:  Config{Name: "c"},
		},
		{
			name: "full valid config",
			cfg: Config{
				Name: "c",
				TTL:  time.Hour,
				FuzzyParams: map[string]FieldSpec{
					"url":   ExactURL(true),
					"level": MoreIsBetter(),
					"text":  CosineSimilarity(0.9, "all-MiniLM-L6-v2"),
				},
			},
		},
		{
			name:    "missing name",
			cfg:     Config{TTL: time.Hour},
			wantErr: true,
		},
		{
			name:    "negative TTL",
			cfg:     Config{Name: "c", TTL: -time.Millisecond},
			wantErr: true,
		},
		{
			name:    "zero-value field spec",
			cfg:     Config{Name: "c", FuzzyParams: map[string]FieldSpec{"f": {}}},
			wantErr: true,
		},
		{
			name:    "cosine without model",
			cfg:     Config{Name: "c", FuzzyParams: map[string]FieldSpec{"f": CosineSimilarity(0.5, "")}},
			wantErr: true,
		},
		{
			name:    "cosine threshold above 1",
			cfg:     Config{Name: "c", FuzzyParams: map[string]FieldSpec{"f": CosineSimilarity(1.01, "m")}},
			wantErr: true,
		},
		{
			name:    "cosine threshold below -1",
			cfg:     Config{Name: "c", FuzzyParams: map[string]FieldSpec{"f": CosineSimilarity(-1.5, "m")}},
			wantErr: true,
		},
		{
			name: "negative threshold within range is legal",
			cfg:  Config{Name: "c", FuzzyParams: map[string]FieldSpec{"f": CosineSimilarity(-0.5, "m")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigEffectiveTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, Config{Name: "c"}.effectiveTTL())
	assert.Equal(t, time.Minute, Config{Name: "c", TTL: time.Minute}.effectiveTTL())
}
