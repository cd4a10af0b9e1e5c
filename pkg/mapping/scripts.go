/*
 * Copyright (c) 2024-present DocMesh, Ltd.
 */

package mapping

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// NativeScript is a compiled script: it runs over the variable bindings and
// returns them, possibly mutated or replaced.
type NativeScript func(vars map[string]any) (map[string]any, error)

// NativeScriptFactory compiles a registered script once; the compiled form
// is cached and reused across executions.
type NativeScriptFactory func() NativeScript

// NativeScripts is the in-process scripting collaborator: scripts are
// registered Go factories looked up by name. Compiled scripts are kept in
// an LRU cache.
//
// # Implements:
//   - IScriptService
type NativeScripts struct {
	factories map[string]NativeScriptFactory
	compiled  *lru.Cache[string, NativeScript]
}

// NewNativeScripts returns a native script service with a compiled-script
// cache of the given size.
//
// # Panics:
//   - if cacheSize is not positive
func NewNativeScripts(cacheSize int) *NativeScripts {
	cache, err := lru.New[string, NativeScript](cacheSize)
	if err != nil {
		panic(fmt.Errorf("script cache: %w", err))
	}
	return &NativeScripts{
		factories: make(map[string]NativeScriptFactory),
		compiled:  cache,
	}
}

// Register adds a named script factory.
//
// # Panics:
//   - if the name is already registered
func (s *NativeScripts) Register(name string, factory NativeScriptFactory) {
	if _, ok := s.factories[name]; ok {
		panic(fmt.Errorf("script «%s»: %w", name, ErrNameUniqueViolation))
	}
	s.factories[name] = factory
}

func (s *NativeScripts) Execute(script Script, vars map[string]any) (map[string]any, error) {
	compiled, ok := s.compiled.Get(script.Name)
	if !ok {
		factory, ok := s.factories[script.Name]
		if !ok {
			return nil, fmt.Errorf("script «%s»: %w", script.Name, ErrScriptNotFound)
		}
		compiled = factory()
		s.compiled.Add(script.Name, compiled)
	}
	if script.Params != nil {
		vars["params"] = script.Params
	}
	return compiled(vars)
}
