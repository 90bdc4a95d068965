// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package embedding

import (
	"os"
	"path/filepath"
	"runtime"
)

// Locator resolves model assets and the ONNX runtime shared library for the
// local Engine. It is a convenience for the shipped provider only; the core
// cache takes all configuration by value.
type Locator struct {
	// BaseDir is the base directory for model storage.
	BaseDir string
}

// NewLocator returns a locator rooted at ~/.fuzzycache/models.
func NewLocator() *Locator {
	homeDir, _ := os.UserHomeDir()
	return &Locator{BaseDir: filepath.Join(homeDir, ".fuzzycache", "models")}
}

// ModelPath returns the path to the ONNX model file for modelName.
func (l *Locator) ModelPath(modelName string) string {
	return filepath.Join(l.BaseDir, modelName, "model.onnx")
}

// VocabPath returns the path to the vocabulary file for modelName.
func (l *Locator) VocabPath(modelName string) string {
	return filepath.Join(l.BaseDir, modelName, "vocab.txt")
}

// ModelConfig builds an Engine registration config for modelName from the
// locator's layout.
func (l *Locator) ModelConfig(modelName string) ModelConfig {
	return ModelConfig{
		ModelPath: l.ModelPath(modelName),
		VocabPath: l.VocabPath(modelName),
	}
}

// Exists reports whether modelName's model file is present.
func (l *Locator) Exists(modelName string) bool {
	_, err := os.Stat(l.ModelPath(modelName))
	return err == nil
}

// EnsureModelDir creates modelName's directory if it does not exist.
func (l *Locator) EnsureModelDir(modelName string) error {
	return os.MkdirAll(filepath.Join(l.BaseDir, modelName), 0755)
}

// SharedLibraryPath returns the ONNX runtime shared library path, checking
// the ONNXRUNTIME_LIB_PATH environment variable first and then common
// per-OS install locations. An empty string means nothing was found.
func (l *Locator) SharedLibraryPath() string {
	if envPath := os.Getenv("ONNXRUNTIME_LIB_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	var paths []string
	switch runtime.GOOS {
	case "darwin":
		paths = []string{
			"/usr/local/lib/libonnxruntime.dylib",
			"/opt/homebrew/lib/libonnxruntime.dylib",
			filepath.Join(l.BaseDir, "..", "lib", "libonnxruntime.dylib"),
		}
	case "linux":
		paths = []string{
			"/usr/local/lib/libonnxruntime.so",
			"/usr/lib/libonnxruntime.so",
			"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
			filepath.Join(l.BaseDir, "..", "lib", "libonnxruntime.so"),
		}
	case "windows":
		paths = []string{
			"C:\\Program Files\\onnxruntime\\lib\\onnxruntime.dll",
			filepath.Join(l.BaseDir, "..", "lib", "onnxruntime.dll"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
