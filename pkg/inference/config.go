package inference

// EngineConfig holds the construction-time options for an engine. These
// are consumed exactly once, when the engine instance is created; they
// never apply to individual generate calls.
type EngineConfig struct {
	// Model is the model identifier (path or hub name). Required.
	Model string

	// Tokenizer selects an alternative tokenizer path. Empty means the
	// model's own tokenizer.
	Tokenizer string

	// TokenizerMode selects the tokenizer implementation. Default "auto".
	TokenizerMode string

	// SkipTokenizerInit skips tokenizer setup for engines fed token IDs
	// directly. Default false.
	SkipTokenizerInit bool

	// TrustRemoteCode allows model repositories to run custom code.
	// Default false.
	TrustRemoteCode bool

	// DType is the weight/activation data type. Default "auto".
	DType string

	// Quantization selects a quantization scheme. Empty means none.
	Quantization string

	// GPUMemoryUtilization is the fraction of device memory the engine
	// may claim. Default 0.9.
	GPUMemoryUtilization float64

	// LoadFormat selects the weight-load format. Default "auto".
	LoadFormat string
}

// DefaultEngineConfig returns an EngineConfig for the given model with
// all construction defaults applied.
func DefaultEngineConfig(model string) EngineConfig {
	return EngineConfig{
		Model:                model,
		TokenizerMode:        "auto",
		DType:                "auto",
		GPUMemoryUtilization: 0.9,
		LoadFormat:           "auto",
	}
}
