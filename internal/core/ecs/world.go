package ecs

// World owns the id pool and the table registry. The data store keeps one
// World per scenario.
type World struct {
	pool     *IDPool
	registry *Registry
}

func NewWorld() *World {
	return &World{
		pool:     NewIDPool(),
		registry: NewRegistry(),
	}
}

func (w *World) Pool() *IDPool       { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() ObjectID {
	return w.pool.Create()
}

func (w *World) Alive(id ObjectID) bool {
	return w.pool.Alive(id)
}

// Destroy removes id from every registered table and retires it.
func (w *World) Destroy(id ObjectID) {
	w.registry.RemoveAll(id)
	w.pool.Destroy(id)
}

// Reset retires every id. Tables are expected to be cleared by their owner.
func (w *World) Reset() {
	w.pool.Reset()
}
