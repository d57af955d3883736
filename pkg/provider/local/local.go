package local

import (
	"context"
	"fmt"

	"github.com/rhuss/lokal/pkg/api"
	"github.com/rhuss/lokal/pkg/inference"
	"github.com/rhuss/lokal/pkg/observability"
	"github.com/rhuss/lokal/pkg/prompt"
	"github.com/rhuss/lokal/pkg/provider"
)

// Provider implements provider.Provider on top of an in-process engine.
type Provider struct {
	cfg      Config
	registry *Registry
	hooks    CallHooks
}

// Ensure Provider implements provider.Provider at compile time.
var _ provider.Provider = (*Provider)(nil)

// New creates a local provider. The engine itself is constructed lazily
// on the first completion call, so New returns quickly even for engines
// with long weight-load times.
func New(cfg Config) (*Provider, error) {
	if cfg.Engine == "" {
		return nil, fmt.Errorf("local: Engine is required")
	}
	hooks := cfg.Hooks
	if hooks == nil {
		hooks = DebugHooks{}
	}
	return &Provider{
		cfg:      cfg,
		registry: NewRegistry(cfg.Engine),
		hooks:    hooks,
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "local"
}

// Capabilities returns what this provider supports.
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		Streaming: true,
		Batch:     true,
	}
}

// Complete performs one non-streaming completion: resolve the engine,
// build sampling parameters, render the prompt, invoke generate, and
// shape the first output into a ModelResponse.
func (p *Provider) Complete(ctx context.Context, req *provider.Request) (*api.ModelResponse, error) {
	engine, promptText, params, err := p.prepare(req)
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(req.Model, "single", "error").Inc()
		return nil, err
	}

	p.hooks.PreCall(req.Model, promptText, params)

	outputs, err := p.generate(ctx, engine, []string{promptText}, params)
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(req.Model, "single", "error").Inc()
		return nil, err
	}

	p.hooks.PostCall(req.Model, promptText, outputs, params)

	resp, err := buildResponse(req.Model, outputs[0])
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(req.Model, "single", "error").Inc()
		return nil, err
	}

	observability.CompletionsTotal.WithLabelValues(req.Model, "single", "ok").Inc()
	recordTokens(req.Model, resp.Usage)
	return resp, nil
}

// Stream performs a streaming completion. The raw engine outputs are
// returned as a single-pass stream with no transformation; no post-call
// hook fires because the adapter never sees consumption complete.
func (p *Provider) Stream(ctx context.Context, req *provider.Request) (provider.OutputStream, error) {
	engine, promptText, params, err := p.prepare(req)
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(req.Model, "stream", "error").Inc()
		return nil, err
	}

	p.hooks.PreCall(req.Model, promptText, params)

	outputs, err := p.generate(ctx, engine, []string{promptText}, params)
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(req.Model, "stream", "error").Inc()
		return nil, err
	}

	observability.CompletionsTotal.WithLabelValues(req.Model, "stream", "ok").Inc()
	return newStream(outputs), nil
}

// CompleteBatch runs all message lists through the engine in one generate
// call. The engine is resolved once and the sampling configuration is
// shared across the batch. Batching itself is the engine's business; the
// adapter only assembles the prompt sequence and shapes the results.
//
// The batch path fires no pre/post call hooks.
func (p *Provider) CompleteBatch(ctx context.Context, req *provider.BatchRequest) ([]*api.ModelResponse, error) {
	engine, generation, err := p.registry.Ensure(req.Model, p.mergedOptions(req.Options))
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(req.Model, "batch", "error").Inc()
		return nil, err
	}

	params, err := inference.NewSamplingParams(generation)
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(req.Model, "batch", "error").Inc()
		return nil, err
	}

	prompts := make([]string, 0, len(req.Messages))
	for _, messages := range req.Messages {
		prompts = append(prompts, prompt.Build(req.Model, messages, p.cfg.Templates))
	}

	outputs, err := p.generate(ctx, engine, prompts, params)
	if err != nil {
		observability.CompletionsTotal.WithLabelValues(req.Model, "batch", "error").Inc()
		return nil, err
	}

	// Engine output order is assumed to match input order; the length is
	// checked so a misbehaving engine fails loudly instead of
	// cross-contaminating results.
	if len(outputs) != len(prompts) {
		observability.CompletionsTotal.WithLabelValues(req.Model, "batch", "error").Inc()
		return nil, newError(KindGenerationFailed,
			fmt.Sprintf("engine returned %d outputs for %d prompts", len(outputs), len(prompts)))
	}

	responses := make([]*api.ModelResponse, 0, len(outputs))
	for _, out := range outputs {
		resp, err := buildResponse(req.Model, out)
		if err != nil {
			observability.CompletionsTotal.WithLabelValues(req.Model, "batch", "error").Inc()
			return nil, err
		}
		recordTokens(req.Model, resp.Usage)
		responses = append(responses, resp)
	}

	observability.CompletionsTotal.WithLabelValues(req.Model, "batch", "ok").Inc()
	observability.BatchSize.Observe(float64(len(prompts)))
	return responses, nil
}

// Embed is declared for interface completeness; the local adapter does
// not implement embeddings.
func (p *Provider) Embed(ctx context.Context, req *provider.EmbedRequest) ([][]float32, error) {
	return nil, ErrNotImplemented
}

// Close shuts down the underlying engine.
func (p *Provider) Close() error {
	return p.registry.Close()
}

// prepare resolves the engine, builds sampling parameters, and renders
// the prompt for a single-prompt call.
func (p *Provider) prepare(req *provider.Request) (inference.Engine, string, inference.SamplingParams, error) {
	engine, generation, err := p.registry.Ensure(req.Model, p.mergedOptions(req.Options))
	if err != nil {
		return nil, "", inference.SamplingParams{}, err
	}

	// Sampling construction errors propagate unmodified: the option set
	// belongs to the engine, not to this adapter.
	params, err := inference.NewSamplingParams(generation)
	if err != nil {
		return nil, "", inference.SamplingParams{}, err
	}

	promptText := prompt.Build(req.Model, req.Messages, p.cfg.Templates)
	return engine, promptText, params, nil
}

// generate invokes the engine, defensively checking the handle and
// wrapping engine failures in the adapter error type.
func (p *Provider) generate(ctx context.Context, engine inference.Engine, prompts []string, params inference.SamplingParams) ([]inference.RequestOutput, error) {
	if engine == nil {
		return nil, newError(KindNoEngine, "need to pass in a model name to initialize the engine")
	}
	outputs, err := engine.Generate(ctx, prompts, params)
	if err != nil {
		return nil, newError(KindGenerationFailed, err.Error())
	}
	return outputs, nil
}

// mergedOptions layers request options over the provider's configured
// defaults. The mode selector key "stream" is stripped: streaming is
// chosen by calling Stream, and engines must not see it as a sampling
// option.
func (p *Provider) mergedOptions(reqOpts map[string]any) map[string]any {
	merged := make(map[string]any, len(p.cfg.Options)+len(reqOpts))
	for k, v := range p.cfg.Options {
		merged[k] = v
	}
	for k, v := range reqOpts {
		merged[k] = v
	}
	delete(merged, "stream")
	return merged
}

func recordTokens(model string, usage api.Usage) {
	observability.TokensTotal.WithLabelValues(model, "prompt").Add(float64(usage.PromptTokens))
	observability.TokensTotal.WithLabelValues(model, "completion").Add(float64(usage.CompletionTokens))
}
