package html2md

import "context"

// TokenCounter counts tokens in text for a specific model. Counts are
// reported alongside EstimateTokens and never drive truncation.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
