package ecs

// Registry tracks all tables and supports bulk cleanup on entity removal.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
	}
}

// Register adds a table to the registry.
func (r *Registry) Register(store Removable) {
	r.stores = append(r.stores, store)
}

// RemoveAll clears the given entity from every registered table.
func (r *Registry) RemoveAll(id ObjectID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
