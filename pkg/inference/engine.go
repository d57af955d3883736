package inference

import "context"

// Engine is a live inference engine instance. Construction is synchronous
// and may take substantial wall-clock time (weight loading); callers must
// tolerate long latency on the first call.
//
// Concurrency guarantees for simultaneous Generate calls are whatever the
// engine provides; lokal adds no coordination of its own.
type Engine interface {
	// Generate runs all prompts through the engine with the given sampling
	// parameters and returns one RequestOutput per prompt, in input order.
	// Batching and scheduling are entirely the engine's business.
	Generate(ctx context.Context, prompts []string, params SamplingParams) ([]RequestOutput, error)

	// Close releases engine resources (weights, device memory).
	Close() error
}

// RequestOutput is an engine's raw result for one prompt. Callers copy
// data out of it; they must not mutate it. Streaming responses carry
// these verbatim, so the JSON shape is part of the wire format.
type RequestOutput struct {
	Prompt         string             `json:"prompt"`
	PromptTokenIDs []int              `json:"prompt_token_ids"`
	Outputs        []CompletionOutput `json:"outputs"`
}

// CompletionOutput is one generated candidate within a RequestOutput.
type CompletionOutput struct {
	Index        int    `json:"index"`
	Text         string `json:"text"`
	TokenIDs     []int  `json:"token_ids"`
	FinishReason string `json:"finish_reason"`
}
