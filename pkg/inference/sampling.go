package inference

import "fmt"

// SamplingParams is the per-call parameter object controlling how an
// engine generates text from a prompt. Common fields are typed; anything
// else a caller supplies is carried verbatim in Extra, and it is up to
// the engine to accept or reject unknown keys.
type SamplingParams struct {
	N                int
	Temperature      *float64
	TopP             *float64
	TopK             *int
	MaxTokens        *int
	Stop             []string
	PresencePenalty  *float64
	FrequencyPenalty *float64
	Seed             *int64

	// Extra holds pass-through options with no typed field.
	Extra map[string]any
}

// NewSamplingParams builds SamplingParams from a generation-options map.
// Recognized keys are decoded into typed fields; unrecognized keys are
// passed through in Extra untouched. A recognized key with a value of the
// wrong type is an error.
func NewSamplingParams(opts map[string]any) (SamplingParams, error) {
	p := SamplingParams{N: 1}
	for key, val := range opts {
		var err error
		switch key {
		case "n":
			p.N, err = asInt(key, val)
		case "temperature":
			p.Temperature, err = asFloatPtr(key, val)
		case "top_p":
			p.TopP, err = asFloatPtr(key, val)
		case "top_k":
			var n int
			if n, err = asInt(key, val); err == nil {
				p.TopK = &n
			}
		case "max_tokens":
			var n int
			if n, err = asInt(key, val); err == nil {
				p.MaxTokens = &n
			}
		case "stop":
			p.Stop, err = asStringSlice(key, val)
		case "presence_penalty":
			p.PresencePenalty, err = asFloatPtr(key, val)
		case "frequency_penalty":
			p.FrequencyPenalty, err = asFloatPtr(key, val)
		case "seed":
			var n int
			if n, err = asInt(key, val); err == nil {
				s := int64(n)
				p.Seed = &s
			}
		default:
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[key] = val
		}
		if err != nil {
			return SamplingParams{}, err
		}
	}
	return p, nil
}

func asInt(key string, val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		// JSON numbers decode as float64.
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("sampling option %q: expected integer, got %T", key, val)
}

func asFloatPtr(key string, val any) (*float64, error) {
	switch v := val.(type) {
	case float64:
		return &v, nil
	case int:
		f := float64(v)
		return &f, nil
	}
	return nil, fmt.Errorf("sampling option %q: expected number, got %T", key, val)
}

func asStringSlice(key string, val any) ([]string, error) {
	switch v := val.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("sampling option %q: expected strings, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("sampling option %q: expected string or string list, got %T", key, val)
}
