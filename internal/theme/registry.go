package theme

import (
	"fmt"
	"sync"
)

// Factory constructs a fresh renderer instance.
type Factory func() Renderer

// Registry holds the installed theme set. Theme ids are validated at runtime
// against this set rather than a compiled enum, so themes stay pluggable.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
	def       string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register installs a theme factory. The first registered theme becomes the
// default until SetDefault overrides it.
func (r *Registry) Register(id string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[id]; !exists {
		r.order = append(r.order, id)
	}
	r.factories[id] = factory
	if r.def == "" {
		r.def = id
	}
}

// SetDefault sets the fallback theme id. Unknown ids are ignored.
func (r *Registry) SetDefault(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[id]; ok {
		r.def = id
	}
}

// Default returns the fallback theme id.
func (r *Registry) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def
}

// IsValid reports whether id names an installed theme.
func (r *Registry) IsValid(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[id]
	return ok
}

// ValidateThemeID returns id when installed, the default otherwise.
func (r *Registry) ValidateThemeID(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.factories[id]; ok {
		return id
	}
	return r.def
}

// New instantiates the renderer for id.
func (r *Registry) New(id string) (Renderer, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", id)
	}
	return factory(), nil
}

// List returns installed theme ids in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Next returns the theme after id in registration order, wrapping around.
// Unknown ids yield the default.
func (r *Registry) Next(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i, candidate := range r.order {
		if candidate == id {
			return r.order[(i+1)%len(r.order)]
		}
	}
	return r.def
}

// BuiltIn returns a registry with the built-in themes installed, with
// "digits" as the default.
func BuiltIn() *Registry {
	r := NewRegistry()
	r.Register("digits", func() Renderer { return NewDigits() })
	r.Register("pulse", func() Renderer { return NewPulse() })
	r.Register("fireworks", func() Renderer { return NewFireworks() })
	return r
}
