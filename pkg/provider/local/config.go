package local

import "github.com/rhuss/lokal/pkg/prompt"

// Config holds configuration for the local provider adapter.
type Config struct {
	// Engine is the name of a registered engine binding (e.g., "echo").
	Engine string

	// Options are server-side default options. They merge under each
	// request's options, with request values winning. Construction keys
	// placed here apply when the engine is first created.
	Options map[string]any

	// Templates maps model identifiers to custom prompt templates.
	// Models not present render through the default formatter.
	Templates map[string]prompt.Template

	// Hooks receives pre/post call notifications. Defaults to DebugHooks.
	Hooks CallHooks
}

// DefaultConfig returns a Config for the given engine binding.
func DefaultConfig(engine string) Config {
	return Config{Engine: engine}
}
