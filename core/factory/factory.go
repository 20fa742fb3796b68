package factory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// ModuleConfig selects one pluggable implementation: a type name and the raw
// settings belonging to it.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Factory builds an implementation of T from its raw settings.
type Factory[T any] func(map[string]any) (T, error)

// Registry stores factories keyed by type name. A zero Registry is not
// usable, call NewRegistry.
type Registry[T any] struct {
	mu     sync.RWMutex
	byType map[string]Factory[T]
}

// NewRegistry returns an empty factory registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{byType: make(map[string]Factory[T])}
}

// Register adds a factory under the given type name. Registering a name
// twice is an error, implementations register once from an init func.
func (r *Registry[T]) Register(name string, f Factory[T]) error {
	if f == nil {
		return fmt.Errorf("nil factory for type %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byType[name]; ok {
		return fmt.Errorf("factory for type %q already registered", name)
	}
	r.byType[name] = f
	return nil
}

// Types lists the registered type names in sorted order.
func (r *Registry[T]) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byType))
	for name := range r.byType {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create instantiates the implementation selected by cfg.
func (r *Registry[T]) Create(cfg ModuleConfig) (T, error) {
	r.mu.RLock()
	f, ok := r.byType[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown module type %q, have %s", cfg.Type, strings.Join(r.Types(), ", "))
	}
	return f(cfg.Conf)
}

// Decode fills the provided struct from raw settings using json tags, so
// module settings reuse the tags of the config structs they mirror.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}
