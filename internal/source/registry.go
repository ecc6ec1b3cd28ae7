package source

import (
	"context"
	"sort"
)

// Backend names a Store implementation and knows how to open it.
type Backend struct {
	Name string
	Open func(ctx context.Context, opts Options) (Store, error)
}

var registry []Backend

// Register adds a backend to the global registry.
// Called from each backend's init() function.
func Register(b Backend) {
	registry = append(registry, b)
}

// All returns all registered backends sorted by name.
func All() []Backend {
	out := make([]Backend, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the names of all registered backends.
func Names() []string {
	var names []string
	for _, b := range All() {
		names = append(names, b.Name)
	}
	return names
}

// ByName returns the backend registered under name. When several backends
// share a name the first registration wins.
func ByName(name string) (Backend, bool) {
	for _, b := range registry {
		if b.Name == name {
			return b, true
		}
	}
	return Backend{}, false
}
