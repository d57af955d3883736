// Package echo provides a deterministic in-process engine for development
// and conformance testing, in the spirit of a mock inference backend. It
// tokenizes on whitespace and echoes the tail of each prompt, so token
// accounting and ordering can be asserted exactly.
//
// Real model inference is out of scope for lokal; deployments bind an
// actual engine through inference.Register.
package echo

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/rhuss/lokal/pkg/inference"
)

func init() {
	inference.Register("echo", func(cfg inference.EngineConfig) (inference.Engine, error) {
		return New(cfg)
	})
}

// defaultMaxTokens bounds the reply when the caller sets no max_tokens.
const defaultMaxTokens = 16

// Engine is a deterministic echo engine.
type Engine struct {
	cfg inference.EngineConfig

	mu     sync.Mutex
	closed bool
}

// Ensure Engine implements inference.Engine at compile time.
var _ inference.Engine = (*Engine)(nil)

// New validates the construction config and returns a ready engine.
func New(cfg inference.EngineConfig) (*Engine, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("echo: model is required")
	}
	if cfg.GPUMemoryUtilization <= 0 || cfg.GPUMemoryUtilization > 1 {
		return nil, fmt.Errorf("echo: gpu_memory_utilization must be in (0, 1], got %v", cfg.GPUMemoryUtilization)
	}
	switch cfg.TokenizerMode {
	case "auto", "slow":
	default:
		return nil, fmt.Errorf("echo: unsupported tokenizer_mode %q", cfg.TokenizerMode)
	}
	return &Engine{cfg: cfg}, nil
}

// Generate produces one RequestOutput per prompt, in input order. The
// reply for each prompt is the prompt's trailing words, capped by
// max_tokens. Unknown pass-through sampling options are rejected.
func (e *Engine) Generate(ctx context.Context, prompts []string, params inference.SamplingParams) ([]inference.RequestOutput, error) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("echo: engine is closed")
	}

	for key := range params.Extra {
		return nil, fmt.Errorf("echo: unsupported sampling option %q", key)
	}

	n := params.N
	if n <= 0 {
		n = 1
	}
	maxTokens := defaultMaxTokens
	if params.MaxTokens != nil {
		maxTokens = *params.MaxTokens
	}

	outputs := make([]inference.RequestOutput, 0, len(prompts))
	for _, prompt := range prompts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		promptTokens := tokenize(prompt)
		replyTokens := promptTokens
		finish := "stop"
		if len(replyTokens) > maxTokens {
			replyTokens = replyTokens[len(replyTokens)-maxTokens:]
			finish = "length"
		}

		out := inference.RequestOutput{
			Prompt:         prompt,
			PromptTokenIDs: tokenIDs(promptTokens),
		}
		for i := 0; i < n; i++ {
			out.Outputs = append(out.Outputs, inference.CompletionOutput{
				Index:        i,
				Text:         strings.Join(replyTokens, " "),
				TokenIDs:     tokenIDs(replyTokens),
				FinishReason: finish,
			})
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// Close marks the engine closed. Safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

func tokenize(s string) []string {
	return strings.Fields(s)
}

// tokenIDs maps each token to a stable 31-bit ID via FNV-1a, so the same
// text always yields the same ID sequence.
func tokenIDs(tokens []string) []int {
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		h := fnv.New32a()
		h.Write([]byte(tok))
		ids[i] = int(h.Sum32() & 0x7fffffff)
	}
	return ids
}
