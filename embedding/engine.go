// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package embedding

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
)

const (
	// DefaultModel is the embedding model loaded when no other name is
	// registered.
	DefaultModel = "all-MiniLM-L6-v2"

	// DefaultDimension is the output dimension of the MiniLM family.
	DefaultDimension = 384

	// DefaultMaxSequenceLength caps tokenized input length.
	DefaultMaxSequenceLength = 256
)

// ModelConfig describes one ONNX embedding model for Engine.Register.
type ModelConfig struct {
	// ModelPath is the path to the ONNX model file.
	ModelPath string

	// VocabPath is the path to the WordPiece vocabulary file. When empty
	// the tokenizer falls back to its built-in minimal vocabulary.
	VocabPath string

	// Dimension is the embedding output dimension. Zero selects
	// DefaultDimension.
	Dimension int

	// MaxSequenceLength caps tokenized input length. Zero selects
	// DefaultMaxSequenceLength.
	MaxSequenceLength int
}

// loadedModel is one registered model's session and tokenizer.
type loadedModel struct {
	session   *ort.DynamicAdvancedSession
	tokenizer *WordPieceTokenizer
	dimension int
	maxSeq    int
}

// Engine is a local embedding Provider backed by ONNX runtime. It holds a
// registry of named models; Embed routes by the model name the cache's
// fuzzy spec asked for. BERT-style sentence-embedding models (MiniLM and
// friends) are supported: input IDs, attention mask and token type IDs in,
// mean-pooled and L2-normalized vector out.
type Engine struct {
	// mu protects models
	mu     sync.RWMutex
	models map[string]*loadedModel
}

// NewEngine initializes the ONNX runtime environment and returns an empty
// engine. Pass the runtime shared library path, or "" to rely on the
// system default search. Register models before calling Embed; Close must
// be called to release the runtime.
func NewEngine(sharedLibPath string) (*Engine, error) {
	if sharedLibPath != "" {
		ort.SetSharedLibraryPath(sharedLibPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize ONNX runtime: %w", err)
	}
	return &Engine{models: make(map[string]*loadedModel)}, nil
}

// Register loads the model described by cfg under name. Registering a name
// twice replaces the previous session.
func (e *Engine) Register(name string, cfg ModelConfig) error {
	if name == "" {
		return fmt.Errorf("model name is required")
	}
	if cfg.ModelPath == "" {
		return fmt.Errorf("model path is required for %q", name)
	}
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", cfg.ModelPath)
	}

	dimension := cfg.Dimension
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	maxSeq := cfg.MaxSequenceLength
	if maxSeq <= 0 {
		maxSeq = DefaultMaxSequenceLength
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"},
		options,
	)
	if err != nil {
		return fmt.Errorf("load ONNX model %q: %w", name, err)
	}

	tokenizer, err := NewWordPieceTokenizer(cfg.VocabPath)
	if err != nil {
		session.Destroy()
		return fmt.Errorf("load tokenizer for %q: %w", name, err)
	}

	e.mu.Lock()
	if old, ok := e.models[name]; ok {
		old.session.Destroy()
	}
	e.models[name] = &loadedModel{
		session:   session,
		tokenizer: tokenizer,
		dimension: dimension,
		maxSeq:    maxSeq,
	}
	e.mu.Unlock()

	log.Infof("Registered embedding model %q from %s", name, filepath.Base(cfg.ModelPath))
	return nil
}

// Models returns the registered model names.
func (e *Engine) Models() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.models))
	for name := range e.models {
		names = append(names, name)
	}
	return names
}

// Embed tokenizes text and runs inference under the named model.
func (e *Engine) Embed(text, model string) ([]float32, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m, ok := e.models[model]
	if !ok {
		return nil, fmt.Errorf("embedding model %q not registered", model)
	}

	tokens, err := m.tokenizer.Tokenize(text, m.maxSeq)
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}

	vector, err := m.runInference(tokens)
	if err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	return vector, nil
}

// runInference executes the session and post-processes the hidden states.
// Must be called with the engine read lock held.
func (m *loadedModel) runInference(tokens *TokenizedInput) ([]float32, error) {
	seqLen := int64(len(tokens.InputIDs))

	inputIDs, err := ort.NewTensor(ort.NewShape(1, seqLen), tokens.InputIDs)
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	defer inputIDs.Destroy()

	attentionMask, err := ort.NewTensor(ort.NewShape(1, seqLen), tokens.AttentionMask)
	if err != nil {
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	defer attentionMask.Destroy()

	tokenTypeIDs, err := ort.NewTensor(ort.NewShape(1, seqLen), tokens.TokenTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("create token_type_ids tensor: %w", err)
	}
	defer tokenTypeIDs.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, seqLen, int64(m.dimension)))
	if err != nil {
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	defer output.Destroy()

	err = m.session.Run(
		[]ort.ArbitraryTensor{inputIDs, attentionMask, tokenTypeIDs},
		[]ort.ArbitraryTensor{output},
	)
	if err != nil {
		return nil, fmt.Errorf("ONNX inference failed: %w", err)
	}

	vector := meanPool(output.GetData(), tokens.AttentionMask, int(seqLen), m.dimension)
	return l2Normalize(vector), nil
}

// meanPool averages the token embeddings over the sequence dimension,
// weighted by the attention mask.
func meanPool(hidden []float32, attentionMask []int64, seqLen, dimension int) []float32 {
	vector := make([]float32, dimension)
	var weight float32

	for i := 0; i < seqLen; i++ {
		if attentionMask[i] != 1 {
			continue
		}
		for j := 0; j < dimension; j++ {
			vector[j] += hidden[i*dimension+j]
		}
		weight++
	}

	if weight > 0 {
		for j := range vector {
			vector[j] /= weight
		}
	}
	return vector
}

// l2Normalize scales the vector to unit length. Zero vectors are returned
// unchanged.
func l2Normalize(vector []float32) []float32 {
	var norm float32
	for _, v := range vector {
		norm += v * v
	}
	norm = float32(math.Sqrt(float64(norm)))

	if norm > 0 {
		for i := range vector {
			vector[i] /= norm
		}
	}
	return vector
}

// Close releases every session and shuts down the ONNX runtime.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for name, m := range e.models {
		m.session.Destroy()
		delete(e.models, name)
	}
	if err := ort.DestroyEnvironment(); err != nil {
		return fmt.Errorf("shut down ONNX runtime: %w", err)
	}

	log.Info("Embedding engine shut down")
	return nil
}
