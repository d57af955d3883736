package local

import (
	"github.com/rhuss/lokal/pkg/api"
	"github.com/rhuss/lokal/pkg/inference"
)

// buildResponse shapes one raw engine output into a ModelResponse. Text
// comes from the first output candidate; usage counts are the lengths of
// the engine's token-id sequences, with total as their sum. Data is
// copied out of the engine's objects, never shared.
func buildResponse(model string, out inference.RequestOutput) (*api.ModelResponse, error) {
	if len(out.Outputs) == 0 {
		return nil, newError(KindGenerationFailed, "engine returned no output candidates")
	}
	first := out.Outputs[0]

	resp := api.NewModelResponse()
	resp.Model = model
	resp.Choices[0].Message.Content = first.Text
	resp.Choices[0].FinishReason = first.FinishReason

	promptTokens := len(out.PromptTokenIDs)
	completionTokens := len(first.TokenIDs)
	resp.Usage = api.Usage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}
	return resp, nil
}
