package inference

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor creates an engine instance from its construction config.
type Constructor func(cfg EngineConfig) (Engine, error)

var (
	constructorsMu sync.RWMutex
	constructors   = make(map[string]Constructor)
)

// Register makes an engine constructor available under the given name.
// Engine bindings call this from their package init, in the manner of
// database/sql drivers. Registering the same name twice panics.
func Register(name string, ctor Constructor) {
	constructorsMu.Lock()
	defer constructorsMu.Unlock()
	if ctor == nil {
		panic("inference: Register with nil constructor")
	}
	if _, dup := constructors[name]; dup {
		panic("inference: Register called twice for engine " + name)
	}
	constructors[name] = ctor
}

// Lookup returns the constructor registered under name. The error lists
// the available engines so a misconfigured deployment is diagnosable.
func Lookup(name string) (Constructor, error) {
	constructorsMu.RLock()
	defer constructorsMu.RUnlock()
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("inference: unknown engine %q (available: %v)", name, engineNames())
	}
	return ctor, nil
}

// Engines returns the sorted names of all registered engine constructors.
func Engines() []string {
	constructorsMu.RLock()
	defer constructorsMu.RUnlock()
	return engineNames()
}

func engineNames() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
