package local

import (
	"sync"
	"time"

	"github.com/rhuss/lokal/pkg/debug"
	"github.com/rhuss/lokal/pkg/inference"
	"github.com/rhuss/lokal/pkg/observability"
)

// Registry holds at most one live engine instance. The first Ensure call
// constructs the engine from its model and options; later calls return
// the same handle, even when they name a different model. The engine is
// never reconfigured within the registry's lifetime.
type Registry struct {
	engineName string
	construct  inference.Constructor

	mu     sync.Mutex
	engine inference.Engine
	model  string
}

// NewRegistry creates a registry that constructs engines with the named
// binding. The constructor is resolved lazily on first use, so a missing
// binding surfaces as a dependency error at call time, not startup.
func NewRegistry(engineName string) *Registry {
	return &Registry{engineName: engineName}
}

// Ensure returns a ready engine handle and the caller's options stripped
// of all engine-construction keys. If no engine exists yet, one is
// constructed from the model and the construction options; this blocks
// for the full weight-load duration. If an engine already exists it is
// returned unchanged and the model argument plays no construction role.
func (r *Registry) Ensure(model string, opts map[string]any) (inference.Engine, map[string]any, error) {
	cfg, generation, err := SplitOptions(model, opts)
	if err != nil {
		return nil, nil, newError(KindConstructionFailed, err.Error())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine != nil {
		if model != r.model {
			debug.Log("engine", "engine already initialized, reusing",
				"loaded_model", r.model, "requested_model", model)
		}
		return r.engine, generation, nil
	}

	if r.construct == nil {
		ctor, err := inference.Lookup(r.engineName)
		if err != nil {
			return nil, nil, newError(KindDependencyUnavailable, err.Error())
		}
		r.construct = ctor
	}

	debug.Log("engine", "constructing engine", "engine", r.engineName, "model", model)
	start := time.Now()
	engine, err := r.construct(cfg)
	if err != nil {
		return nil, nil, newError(KindConstructionFailed, err.Error())
	}
	observability.EngineLoadSeconds.WithLabelValues(r.engineName, model).Observe(time.Since(start).Seconds())

	r.engine = engine
	r.model = model
	return r.engine, generation, nil
}

// Model returns the model the engine was constructed for, or "" when no
// engine exists yet.
func (r *Registry) Model() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.model
}

// Close shuts down the engine if one was constructed.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.engine == nil {
		return nil
	}
	err := r.engine.Close()
	r.engine = nil
	r.model = ""
	return err
}
