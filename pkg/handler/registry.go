// SPDX-License-Identifier: MPL-2.0

package handler

import (
	"fmt"
	"sync"

	"github.com/webermax/meteor/pkg/build"
)

// Handler compiles one source file. Alias of the engine-side interface so
// implementations only import this package.
type Handler = build.Handler

// Registry maps handler names to implementations. It satisfies
// build.HandlerLookup.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a name to a handler. Registering the same name twice is a
// configuration error.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("handler name must not be empty")
	}
	if h == nil {
		return fmt.Errorf("handler %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("handler %q is already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Lookup implements build.HandlerLookup.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered handler names, unordered.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns a registry pre-populated with the built-in
// handlers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Built-in names are registered exactly once; errors are impossible.
	_ = r.Register("js", JS{})
	_ = r.Register("css", CSS{})
	_ = r.Register("templates", Templates{})
	_ = r.Register("static", Static{})
	return r
}
