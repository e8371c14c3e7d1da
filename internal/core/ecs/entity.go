package ecs

import "github.com/google/uuid"

// EntityID is an opaque random (v4) identifier. IDs are unique across World
// instances, so an entity restored into a new World never reuses its old ID.
type EntityID uuid.UUID

// NilEntity is the zero EntityID. Spawn never returns it.
var NilEntity EntityID

func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

// ParseEntityID parses the canonical string form produced by String.
func ParseEntityID(s string) (EntityID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilEntity, err
	}
	return EntityID(u), nil
}

func (id EntityID) String() string { return uuid.UUID(id).String() }
func (id EntityID) IsZero() bool   { return id == NilEntity }

func (id EntityID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *EntityID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// EntityPool tracks the live set in spawn order. Dead slots in the order
// slice are compacted lazily once they outnumber the live ones.
type EntityPool struct {
	alive map[EntityID]int // id -> position in order
	order []EntityID
	dead  int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		alive: make(map[EntityID]int, 1024),
		order: make([]EntityID, 0, 1024),
	}
}

func (p *EntityPool) Create() EntityID {
	id := NewEntityID()
	p.alive[id] = len(p.order)
	p.order = append(p.order, id)
	return id
}

func (p *EntityPool) Alive(id EntityID) bool {
	_, ok := p.alive[id]
	return ok
}

// Destroy reports whether id was alive.
func (p *EntityPool) Destroy(id EntityID) bool {
	pos, ok := p.alive[id]
	if !ok {
		return false // already destroyed or never spawned
	}
	delete(p.alive, id)
	p.order[pos] = NilEntity
	p.dead++
	if p.dead > len(p.alive) {
		p.compact()
	}
	return true
}

func (p *EntityPool) Len() int { return len(p.alive) }

// Each visits live entities in spawn order. fn must not spawn or destroy.
func (p *EntityPool) Each(fn func(EntityID)) {
	for _, id := range p.order {
		if !id.IsZero() {
			fn(id)
		}
	}
}

func (p *EntityPool) compact() {
	live := p.order[:0]
	for _, id := range p.order {
		if id.IsZero() {
			continue
		}
		p.alive[id] = len(live)
		live = append(live, id)
	}
	clear(p.order[len(live):])
	p.order = live
	p.dead = 0
}
