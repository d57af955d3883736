package provider

import (
	"context"

	"github.com/rhuss/lokal/pkg/api"
	"github.com/rhuss/lokal/pkg/inference"
)

// Provider abstracts a completion backend. Implementations must be safe
// for concurrent use by multiple goroutines once constructed.
type Provider interface {
	// Name returns the provider identifier (e.g., "local").
	Name() string

	// Capabilities returns what this provider supports.
	Capabilities() Capabilities

	// Complete performs one non-streaming completion.
	Complete(ctx context.Context, req *Request) (*api.ModelResponse, error)

	// CompleteBatch runs every message list in the request through the
	// backend and returns one response per list, preserving input order.
	CompleteBatch(ctx context.Context, req *BatchRequest) ([]*api.ModelResponse, error)

	// Stream performs a streaming completion. The returned stream yields
	// the backend's raw output objects and is single-pass: once exhausted
	// it cannot be restarted.
	Stream(ctx context.Context, req *Request) (OutputStream, error)

	// Embed computes embeddings for the given inputs. Backends without
	// embedding support return an error.
	Embed(ctx context.Context, req *EmbedRequest) ([][]float32, error)

	// Close releases backend resources.
	Close() error
}

// OutputStream is a single-consumer iterator over raw engine outputs.
// Next returns the next output and true, or nil and false once the
// stream is exhausted. Re-iteration is not possible.
type OutputStream interface {
	Next() (*inference.RequestOutput, bool)
}

// Capabilities declares what features a backend supports.
type Capabilities struct {
	Streaming bool
	Batch     bool
	Embedding bool
}

// Request is one completion call: a model, an ordered message list, and
// an open options map. Option keys recognized as engine-construction
// options are consumed at engine creation; everything else is forwarded
// to the per-call sampling configuration.
type Request struct {
	Model    string         `json:"model"`
	Messages []api.Message  `json:"messages"`
	Options  map[string]any `json:"options,omitempty"`
}

// BatchRequest is a batch completion call: one message list per desired
// completion, sharing a model and options.
type BatchRequest struct {
	Model    string          `json:"model"`
	Messages [][]api.Message `json:"messages"`
	Options  map[string]any  `json:"options,omitempty"`
}

// EmbedRequest asks for embeddings of the given inputs.
type EmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}
