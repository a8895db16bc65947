// Package gemini reports model-accurate token counts using the Gemini local
// tokenizer. Counts are informational; truncation uses html2md.EstimateTokens.
package gemini

import (
	"context"
	"sync"

	"github.com/fwojciec/html2md"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultModel is the tokenizer model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

var _ html2md.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts Markdown bodies with a model's vocabulary, offline.
// The tokenizer is not safe for concurrent use, so calls are serialized.
type TokenCounter struct {
	model string

	mu  sync.Mutex
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the vocabulary for model, or DefaultModel when model
// is empty. Unknown models are EINVALID.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, html2md.WrapError(err, html2md.EINVALID, "unsupported tokenizer model %q", model)
	}
	return &TokenCounter{model: model, tok: tok}, nil
}

// Model returns the tokenizer model name.
func (tc *TokenCounter) Model() string { return tc.model }

// CountTokens returns the number of tokens text encodes to.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	res, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return 0, html2md.WrapError(err, html2md.EINTERNAL, "counting tokens with %s", tc.model)
	}
	return int(res.TotalTokens), nil
}
