package local

import (
	"fmt"

	"github.com/rhuss/lokal/pkg/inference"
)

// Construction option keys. Any caller-supplied value for these overrides
// the default; every other key passes through as a generation option.
const (
	optTokenizer            = "tokenizer"
	optTokenizerMode        = "tokenizer_mode"
	optSkipTokenizerInit    = "skip_tokenizer_init"
	optTrustRemoteCode      = "trust_remote_code"
	optDType                = "dtype"
	optQuantization         = "quantization"
	optGPUMemoryUtilization = "gpu_memory_utilization"
	optLoadFormat           = "load_format"
)

// SplitOptions partitions an options map into a typed engine construction
// config and the remaining generation options. The partition is exact:
// every key lands on exactly one side, whitelist keys never appear in the
// remainder, and defaults apply exactly when a whitelist key is absent.
// The input map is not modified.
func SplitOptions(model string, opts map[string]any) (inference.EngineConfig, map[string]any, error) {
	cfg := inference.DefaultEngineConfig(model)
	generation := make(map[string]any, len(opts))

	for key, val := range opts {
		var err error
		switch key {
		case optTokenizer:
			cfg.Tokenizer, err = optString(key, val)
		case optTokenizerMode:
			cfg.TokenizerMode, err = optString(key, val)
		case optSkipTokenizerInit:
			cfg.SkipTokenizerInit, err = optBool(key, val)
		case optTrustRemoteCode:
			cfg.TrustRemoteCode, err = optBool(key, val)
		case optDType:
			cfg.DType, err = optString(key, val)
		case optQuantization:
			cfg.Quantization, err = optString(key, val)
		case optGPUMemoryUtilization:
			cfg.GPUMemoryUtilization, err = optFloat(key, val)
		case optLoadFormat:
			cfg.LoadFormat, err = optString(key, val)
		default:
			generation[key] = val
		}
		if err != nil {
			return inference.EngineConfig{}, nil, err
		}
	}
	return cfg, generation, nil
}

func optString(key string, val any) (string, error) {
	if s, ok := val.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("option %q: expected string, got %T", key, val)
}

func optBool(key string, val any) (bool, error) {
	if b, ok := val.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("option %q: expected bool, got %T", key, val)
}

func optFloat(key string, val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("option %q: expected number, got %T", key, val)
}
