package ports

import "context"

// LLMClient is the boundary to the generative-text completion service. The
// service is a black box: it may fail transiently and is expected to apply
// its own bounded retry before surfacing failure.
type LLMClient interface {
	ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error)
}
