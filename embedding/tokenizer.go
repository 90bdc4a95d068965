// Copyright 2026 The fuzzycache Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package embedding

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// TokenizedInput is tokenizer output ready for model inference.
type TokenizedInput struct {
	// InputIDs are the token IDs, bracketed by [CLS] and [SEP].
	InputIDs []int64

	// AttentionMask marks real tokens (1) vs padding (0).
	AttentionMask []int64

	// TokenTypeIDs are segment IDs; always 0 for single-segment input.
	TokenTypeIDs []int64
}

// WordPieceTokenizer is a basic WordPiece tokenizer for BERT-style
// embedding models. It lowercases, separates punctuation, and greedily
// matches the longest known subword, emitting [UNK] for characters outside
// the vocabulary.
type WordPieceTokenizer struct {
	// vocab maps tokens to their IDs
	vocab map[string]int64

	clsID int64
	sepID int64
	padID int64
	unkID int64
}

// NewWordPieceTokenizer loads a vocabulary file with one token per line.
// An empty or missing path falls back to a built-in minimal vocabulary,
// which keeps the tokenizer usable for smoke tests without model assets.
func NewWordPieceTokenizer(vocabPath string) (*WordPieceTokenizer, error) {
	t := &WordPieceTokenizer{vocab: make(map[string]int64)}

	if vocabPath == "" {
		t.loadMinimalVocab()
		return t, nil
	}

	file, err := os.Open(vocabPath)
	if err != nil {
		t.loadMinimalVocab()
		return t, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var id int64
	for scanner.Scan() {
		t.vocab[scanner.Text()] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	t.bindSpecialTokens()
	return t, nil
}

// loadMinimalVocab installs a small built-in vocabulary: BERT special
// tokens, function words, and a handful of common subword suffixes.
func (t *WordPieceTokenizer) loadMinimalVocab() {
	minimal := []string{
		"[PAD]", "[UNK]", "[CLS]", "[SEP]", "[MASK]",
		"the", "a", "an", "is", "are", "was", "were",
		"to", "of", "in", "for", "on", "with", "at",
		"by", "from", "as", "or", "and", "but", "not",
		"this", "that", "it", "be", "have", "has", "had",
		"do", "does", "did", "will", "would", "could", "should",
		"can", "may", "might", "must", "shall",
		"i", "you", "he", "she", "we", "they", "me", "him", "her", "us", "them",
		"my", "your", "his", "its", "our", "their",
		"what", "which", "who", "whom", "whose", "where", "when", "why", "how",
		"all", "each", "every", "both", "few", "more", "most", "other", "some", "such",
		"no", "nor", "only", "own", "same", "so", "than", "too", "very",
		"just", "also", "now", "here", "there", "then", "once",
		"summarize", "summary", "page", "url", "link", "article", "text",
		"write", "create", "build", "make", "help", "explain", "analyze",
		"data", "file", "model", "cache", "result", "request", "response",
		"error", "fail", "retry", "fetch", "search", "find", "similar",
		"api", "web", "server", "client", "database", "query",
		"##s", "##ed", "##ing", "##er", "##ly", "##tion", "##ment",
	}

	for i, token := range minimal {
		t.vocab[token] = int64(i)
	}
	t.bindSpecialTokens()
}

// bindSpecialTokens resolves the special token IDs from the vocabulary.
func (t *WordPieceTokenizer) bindSpecialTokens() {
	t.clsID = t.vocab["[CLS]"]
	t.sepID = t.vocab["[SEP]"]
	t.padID = t.vocab["[PAD]"]
	t.unkID = t.vocab["[UNK]"]
}

// Tokenize converts text into model input, truncated to maxLength tokens
// including the special tokens.
func (t *WordPieceTokenizer) Tokenize(text string, maxLength int) (*TokenizedInput, error) {
	words := strings.Fields(separatePunct(strings.ToLower(text)))

	ids := []int64{t.clsID}
	for _, word := range words {
		ids = append(ids, t.tokenizeWord(word)...)
		if len(ids) >= maxLength-1 {
			break
		}
	}
	if len(ids) > maxLength-1 {
		ids = ids[:maxLength-1]
	}
	ids = append(ids, t.sepID)

	seqLen := len(ids)
	attentionMask := make([]int64, seqLen)
	tokenTypeIDs := make([]int64, seqLen)
	for i := range attentionMask {
		attentionMask[i] = 1
	}

	return &TokenizedInput{
		InputIDs:      ids,
		AttentionMask: attentionMask,
		TokenTypeIDs:  tokenTypeIDs,
	}, nil
}

// tokenizeWord greedily matches the longest known subword, prefixing
// continuations with "##". Characters with no match emit [UNK] and advance
// by one.
func (t *WordPieceTokenizer) tokenizeWord(word string) []int64 {
	if id, ok := t.vocab[word]; ok {
		return []int64{id}
	}

	var ids []int64
	start := 0
	for start < len(word) {
		matched := false
		for end := len(word); end > start; end-- {
			sub := word[start:end]
			if start > 0 {
				sub = "##" + sub
			}
			if id, ok := t.vocab[sub]; ok {
				ids = append(ids, id)
				start = end
				matched = true
				break
			}
		}
		if !matched {
			ids = append(ids, t.unkID)
			start++
		}
	}

	if len(ids) == 0 {
		return []int64{t.unkID}
	}
	return ids
}

// VocabSize returns the number of known tokens.
func (t *WordPieceTokenizer) VocabSize() int {
	return len(t.vocab)
}

// separatePunct pads punctuation with spaces and collapses whitespace.
func separatePunct(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsPunct(r) {
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
