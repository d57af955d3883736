package local

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rhuss/lokal/pkg/api"
	"github.com/rhuss/lokal/pkg/inference"
	_ "github.com/rhuss/lokal/pkg/inference/echo"
	"github.com/rhuss/lokal/pkg/prompt"
	"github.com/rhuss/lokal/pkg/provider"
)

// recordingHooks captures pre/post call invocations.
type recordingHooks struct {
	preCalls  int
	postCalls int
	prompt    string
}

func (h *recordingHooks) PreCall(model, prompt string, params inference.SamplingParams) {
	h.preCalls++
	h.prompt = prompt
}

func (h *recordingHooks) PostCall(model, prompt string, outputs []inference.RequestOutput, params inference.SamplingParams) {
	h.postCalls++
}

func newEchoProvider(t *testing.T, cfg Config) *Provider {
	t.Helper()
	if cfg.Engine == "" {
		cfg.Engine = "echo"
	}
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNew_RequiresEngine(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing engine name")
	}
}

func TestComplete_UsageAccounting(t *testing.T) {
	hooks := &recordingHooks{}
	p := newEchoProvider(t, Config{Hooks: hooks})

	resp, err := p.Complete(context.Background(), &provider.Request{
		Model:    "facebook/opt-125m",
		Messages: []api.Message{{Role: "user", Content: "good morning there"}},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Model != "facebook/opt-125m" {
		t.Errorf("expected model echoed back, got %q", resp.Model)
	}
	if resp.Created == 0 {
		t.Error("expected created timestamp")
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content == "" {
		t.Fatalf("expected populated first choice, got %+v", resp.Choices)
	}

	// The echo engine tokenizes on whitespace: the rendered prompt
	// "user: good morning there\nassistant: " has 5 fields, and the
	// reply echoes all 5.
	if resp.Usage.PromptTokens != 5 {
		t.Errorf("expected 5 prompt tokens, got %d", resp.Usage.PromptTokens)
	}
	if resp.Usage.CompletionTokens != 5 {
		t.Errorf("expected 5 completion tokens, got %d", resp.Usage.CompletionTokens)
	}
	if resp.Usage.TotalTokens != resp.Usage.PromptTokens+resp.Usage.CompletionTokens {
		t.Errorf("total %d != prompt %d + completion %d",
			resp.Usage.TotalTokens, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	if hooks.preCalls != 1 || hooks.postCalls != 1 {
		t.Errorf("expected 1 pre and 1 post call, got %d/%d", hooks.preCalls, hooks.postCalls)
	}
	if !strings.Contains(hooks.prompt, "good morning there") {
		t.Errorf("hook did not receive rendered prompt: %q", hooks.prompt)
	}
}

func TestComplete_CustomTemplate(t *testing.T) {
	hooks := &recordingHooks{}
	p := newEchoProvider(t, Config{
		Hooks: hooks,
		Templates: map[string]prompt.Template{
			"tuned/model": {
				Initial: "<s>",
				Final:   "ASSISTANT:",
				Roles:   map[string]prompt.Role{"user": {Prefix: "USER: ", Suffix: " "}},
			},
		},
	})

	_, err := p.Complete(context.Background(), &provider.Request{
		Model:    "tuned/model",
		Messages: []api.Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if hooks.prompt != "<s>USER: hi ASSISTANT:" {
		t.Errorf("expected custom template rendering, got %q", hooks.prompt)
	}
}

func TestComplete_ServerDefaultOptions(t *testing.T) {
	p := newEchoProvider(t, Config{Options: map[string]any{"max_tokens": 2}})

	resp, err := p.Complete(context.Background(), &provider.Request{
		Model:    "facebook/opt-125m",
		Messages: []api.Message{{Role: "user", Content: "one two three four five"}},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Usage.CompletionTokens != 2 {
		t.Errorf("expected server default max_tokens applied, got %d completion tokens", resp.Usage.CompletionTokens)
	}
	if resp.Choices[0].FinishReason != "length" {
		t.Errorf("expected finish_reason length, got %q", resp.Choices[0].FinishReason)
	}
}

func TestComplete_SamplingTypeErrorPropagatesUnwrapped(t *testing.T) {
	p := newEchoProvider(t, Config{})

	_, err := p.Complete(context.Background(), &provider.Request{
		Model:    "m",
		Messages: []api.Message{{Role: "user", Content: "hi"}},
		Options:  map[string]any{"temperature": "hot"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var adapterErr *Error
	if errors.As(err, &adapterErr) {
		t.Errorf("sampling construction error should propagate unmodified, got %v", adapterErr)
	}
}

func TestComplete_EngineRejectsOption(t *testing.T) {
	p := newEchoProvider(t, Config{})

	_, err := p.Complete(context.Background(), &provider.Request{
		Model:    "m",
		Messages: []api.Message{{Role: "user", Content: "hi"}},
		Options:  map[string]any{"use_beam_search": true},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var adapterErr *Error
	if !errors.As(err, &adapterErr) {
		t.Fatalf("expected *local.Error, got %T", err)
	}
	if adapterErr.Kind != KindGenerationFailed || adapterErr.StatusCode != 0 {
		t.Errorf("unexpected error: %+v", adapterErr)
	}
	if !strings.Contains(adapterErr.Message, "use_beam_search") {
		t.Errorf("expected engine message preserved, got %q", adapterErr.Message)
	}
}

func TestCompleteBatch_OrderAndIndependence(t *testing.T) {
	p := newEchoProvider(t, Config{})

	req := &provider.BatchRequest{
		Model: "facebook/opt-125m",
		Messages: [][]api.Message{
			{{Role: "user", Content: "a"}},
			{{Role: "user", Content: "b b"}},
			{{Role: "user", Content: "c c c"}},
		},
	}

	responses, err := p.CompleteBatch(context.Background(), req)
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}

	if len(responses) != len(req.Messages) {
		t.Fatalf("expected %d responses, got %d", len(req.Messages), len(responses))
	}

	// Each rendered prompt "user: <content>\nassistant: " has
	// 2 + len(content words) fields, so usage must differ per element
	// and derive only from that element's output.
	for i, resp := range responses {
		wantPrompt := 3 + i
		if resp.Usage.PromptTokens != wantPrompt {
			t.Errorf("response %d: expected %d prompt tokens, got %d", i, wantPrompt, resp.Usage.PromptTokens)
		}
		if resp.Usage.TotalTokens != resp.Usage.PromptTokens+resp.Usage.CompletionTokens {
			t.Errorf("response %d: usage totals inconsistent: %+v", i, resp.Usage)
		}
		if resp.Model != req.Model {
			t.Errorf("response %d: expected model %q, got %q", i, req.Model, resp.Model)
		}
	}

	// Distinct response objects per element.
	if responses[0] == responses[1] {
		t.Error("expected fresh response objects per input")
	}
}

func TestCompleteBatch_ConstructionFailure(t *testing.T) {
	p := newEchoProvider(t, Config{Engine: "registry-boom"})

	_, err := p.CompleteBatch(context.Background(), &provider.BatchRequest{
		Model:    "m",
		Messages: [][]api.Message{{{Role: "user", Content: "hi"}}},
	})
	var adapterErr *Error
	if !errors.As(err, &adapterErr) {
		t.Fatalf("expected *local.Error, got %T", err)
	}
	if adapterErr.Kind != KindConstructionFailed || adapterErr.StatusCode != 0 {
		t.Errorf("unexpected error: %+v", adapterErr)
	}
}

func TestStream_SinglePass(t *testing.T) {
	p := newEchoProvider(t, Config{})

	stream, err := p.Stream(context.Background(), &provider.Request{
		Model:    "m",
		Messages: []api.Message{{Role: "user", Content: "hello world"}},
		Options:  map[string]any{"stream": true},
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	out, ok := stream.Next()
	if !ok || out == nil {
		t.Fatal("expected one raw output")
	}
	if len(out.Outputs) == 0 || out.Outputs[0].Text == "" {
		t.Errorf("expected raw engine output, got %+v", out)
	}

	// Exhausted: no restart possible.
	if _, ok := stream.Next(); ok {
		t.Error("expected stream exhausted after one output")
	}
	if _, ok := stream.Next(); ok {
		t.Error("expected stream to stay exhausted")
	}
}

func TestEmbed_NotImplemented(t *testing.T) {
	p := newEchoProvider(t, Config{})
	if _, err := p.Embed(context.Background(), &provider.EmbedRequest{Model: "m", Input: []string{"x"}}); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
}

func TestProviderIdentity(t *testing.T) {
	p := newEchoProvider(t, Config{})
	if p.Name() != "local" {
		t.Errorf("expected name local, got %q", p.Name())
	}
	caps := p.Capabilities()
	if !caps.Streaming || !caps.Batch || caps.Embedding {
		t.Errorf("unexpected capabilities: %+v", caps)
	}
}

func TestError_String(t *testing.T) {
	err := newError(KindNoEngine, "no engine")
	if err.StatusCode != 0 {
		t.Errorf("expected status 0, got %d", err.StatusCode)
	}
	if got := err.Error(); got != "local no_engine_available: no engine" {
		t.Errorf("Error() = %q", got)
	}
}
