package local

import (
	"github.com/rhuss/lokal/pkg/debug"
	"github.com/rhuss/lokal/pkg/inference"
)

// CallHooks receives pre- and post-call notifications around single
// completions. The local backend never attaches a credential, so hooks
// see prompt and parameters only.
type CallHooks interface {
	// PreCall fires after the prompt and sampling parameters are built,
	// before the engine is invoked.
	PreCall(model, prompt string, params inference.SamplingParams)

	// PostCall fires with the raw engine outputs of a non-streaming call.
	PostCall(model, prompt string, outputs []inference.RequestOutput, params inference.SamplingParams)
}

// DebugHooks logs pre/post call events through the debug package under
// the "providers" category. This is the default when no hooks are set.
type DebugHooks struct{}

func (DebugHooks) PreCall(model, prompt string, params inference.SamplingParams) {
	debug.Log("providers", "pre call",
		"model", model,
		"prompt", debug.Truncate(prompt, 200),
		"n", params.N,
	)
}

func (DebugHooks) PostCall(model, prompt string, outputs []inference.RequestOutput, params inference.SamplingParams) {
	if len(outputs) == 0 || len(outputs[0].Outputs) == 0 {
		debug.Log("providers", "post call", "model", model, "outputs", len(outputs))
		return
	}
	debug.Log("providers", "post call",
		"model", model,
		"outputs", len(outputs),
		"text", debug.Truncate(outputs[0].Outputs[0].Text, 200),
	)
}
