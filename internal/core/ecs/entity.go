package ecs

// ObjectID identifies one scenario entity. Zero is reserved for the
// scenario itself and for "no host".
type ObjectID uint64

func (id ObjectID) IsZero() bool { return id == 0 }

// IDPool hands out object ids. Ids grow monotonically and are never handed
// out twice within one pool lifetime, so a stale id can never alias a newer
// entity.
type IDPool struct {
	next  ObjectID
	alive map[ObjectID]struct{}
}

func NewIDPool() *IDPool {
	return &IDPool{
		alive: make(map[ObjectID]struct{}, 1024),
	}
}

// Create returns the next unused id.
func (p *IDPool) Create() ObjectID {
	p.next++
	p.alive[p.next] = struct{}{}
	return p.next
}

func (p *IDPool) Alive(id ObjectID) bool {
	_, ok := p.alive[id]
	return ok
}

func (p *IDPool) Destroy(id ObjectID) {
	delete(p.alive, id)
}

// Len returns the number of live ids.
func (p *IDPool) Len() int { return len(p.alive) }

// Reset forgets every live id. The counter keeps running.
func (p *IDPool) Reset() {
	clear(p.alive)
}
