package metadata

import (
	"slices"
	"sort"
	"sync"
)

// Registry stores entity definitions by name.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]EntityDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]EntityDefinition),
	}
}

// Register validates def and stores it, replacing any definition with the
// same name.
func (r *Registry) Register(def EntityDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.entities[def.Name] = cloneDefinition(def)
	r.mu.Unlock()
	return nil
}

// Get returns a copy of the definition named name.
func (r *Registry) Get(name string) (EntityDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entities[name]
	if !ok {
		return EntityDefinition{}, false
	}
	return cloneDefinition(d), true
}

// List returns every definition sorted by name.
func (r *Registry) List() []EntityDefinition {
	r.mu.RLock()
	list := make([]EntityDefinition, 0, len(r.entities))
	for _, def := range r.entities {
		list = append(list, cloneDefinition(def))
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func cloneDefinition(d EntityDefinition) EntityDefinition {
	d.Breadcrumb = slices.Clone(d.Breadcrumb)
	d.Tabs = slices.Clone(d.Tabs)
	d.Fields = slices.Clone(d.Fields)
	return d
}
