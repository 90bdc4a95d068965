// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package embedding

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocator(t *testing.T) {
	l := NewLocator()
	assert.NotEmpty(t, l.BaseDir)
	assert.Contains(t, l.BaseDir, ".fuzzycache")
}

func TestLocatorPaths(t *testing.T) {
	l := &Locator{BaseDir: "/models"}

	assert.Equal(t, filepath.Join("/models", DefaultModel, "model.onnx"), l.ModelPath(DefaultModel))
	assert.Equal(t, filepath.Join("/models", DefaultModel, "vocab.txt"), l.VocabPath(DefaultModel))

	cfg := l.ModelConfig(DefaultModel)
	assert.Equal(t, l.ModelPath(DefaultModel), cfg.ModelPath)
	assert.Equal(t, l.VocabPath(DefaultModel), cfg.VocabPath)
}

func TestLocatorExists(t *testing.T) {
	l := &Locator{BaseDir: t.TempDir()}
	assert.False(t, l.Exists(DefaultModel))

	require.NoError(t, l.EnsureModelDir(DefaultModel))
	require.NoError(t, os.WriteFile(l.ModelPath(DefaultModel), []byte("stub"), 0644))
	assert.True(t, l.Exists(DefaultModel))
}

func TestLocatorSharedLibraryPath_EnvOverride(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "libonnxruntime.so")
	require.NoError(t, os.WriteFile(lib, []byte("stub"), 0644))
	t.Setenv("ONNXRUNTIME_LIB_PATH", lib)

	l := &Locator{BaseDir: t.TempDir()}
	assert.Equal(t, lib, l.SharedLibraryPath())
}
