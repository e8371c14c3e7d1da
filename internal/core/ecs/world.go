package ecs

import (
	"time"

	"github.com/l1jgo/ecsgraph/internal/core/event"
	"github.com/l1jgo/ecsgraph/internal/core/system"
)

// System and SystemFunc bind the generic system package to *World.
type (
	System     = system.System[*World]
	SystemFunc = system.Func[*World]
)

// Lifecycle signals emitted synchronously by Spawn and Despawn.
var (
	Spawned   = event.NewSignal[EntityID]("ecs.spawned")
	Despawned = event.NewSignal[EntityID]("ecs.despawned")
)

// World is the top-level ECS container. It owns the entity pool, the
// component registry, resources, signal subscribers, the ordered system list
// and a deferred destruction queue flushed by CleanupSystem.
//
// A World is not safe for concurrent use; systems run sequentially inside Tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	resources    map[string]any
	bus          *event.Bus
	runner       *system.Runner[*World]
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		resources:    make(map[string]any, 16),
		bus:          event.NewBus(),
		runner:       system.NewRunner[*World](),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }
func (w *World) Bus() *event.Bus     { return w.bus }

// Spawn allocates a fresh entity and marks it alive.
func (w *World) Spawn() EntityID {
	id := w.pool.Create()
	event.Emit(w.bus, Spawned, id)
	return id
}

// Despawn kills id and removes its data from every component store.
// Dead or unknown ids are ignored.
func (w *World) Despawn(id EntityID) {
	if !w.pool.Destroy(id) {
		return
	}
	w.registry.RemoveAll(id)
	event.Emit(w.bus, Despawned, id)
}

func (w *World) Exists(id EntityID) bool {
	return w.pool.Alive(id)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.pool.Len()
}

// DespawnLater queues an entity for destruction at FlushDespawns.
func (w *World) DespawnLater(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDespawns destroys all queued entities and clears their components.
func (w *World) FlushDespawns() {
	// Despawned handlers may queue more entities; drain until empty.
	for len(w.destroyQueue) > 0 {
		queue := w.destroyQueue
		w.destroyQueue = make([]EntityID, 0, 64)
		for _, id := range queue {
			w.Despawn(id)
		}
	}
}

// Attach stores ct's default value for id, replacing any existing value.
// Ignored when id is not alive.
func Attach[T any](w *World, id EntityID, ct ComponentType[T]) {
	if !w.pool.Alive(id) {
		return
	}
	s, _ := storeFor(w.registry, ct, true)
	s.Set(id, ct.New())
}

// AttachValue stores v for id, replacing any existing value. Ignored when id
// is not alive.
func AttachValue[T any](w *World, id EntityID, ct ComponentType[T], v T) {
	if !w.pool.Alive(id) {
		return
	}
	s, _ := storeFor(w.registry, ct, true)
	s.Set(id, v)
}

// Set overwrites the value only when id already has ct attached; it never
// creates an attachment.
func Set[T any](w *World, id EntityID, ct ComponentType[T], v T) {
	s, ok := storeFor(w.registry, ct, false)
	if !ok || !s.Has(id) {
		return
	}
	s.Set(id, v)
}

// Get returns the value of ct for id, or false when absent.
func Get[T any](w *World, id EntityID, ct ComponentType[T]) (T, bool) {
	s, ok := storeFor(w.registry, ct, false)
	if !ok {
		var zero T
		return zero, false
	}
	return s.Get(id)
}

// Detach removes the component named by key from id, if present.
func (w *World) Detach(id EntityID, key ComponentKey) {
	if s, ok := w.registry.lookup(key.ComponentName()); ok {
		s.Remove(id)
	}
}

func (w *World) Has(id EntityID, key ComponentKey) bool {
	s, ok := w.registry.lookup(key.ComponentName())
	return ok && s.Has(id)
}

// Value returns the stored component under name as an untyped value.
func (w *World) Value(id EntityID, name string) (any, bool) {
	s, ok := w.registry.lookup(name)
	if !ok {
		return nil, false
	}
	return s.Lookup(id)
}

// Emit synchronously notifies every current subscriber of sig.
func Emit[T any](w *World, sig event.Signal[T], payload T) {
	event.Emit(w.bus, sig, payload)
}

// Post queues payload for delivery at the start of the next Tick.
func Post[T any](w *World, sig event.Signal[T], payload T) {
	event.Post(w.bus, sig, payload)
}

// Subscribe registers h on sig; the returned function removes it.
func Subscribe[T any](w *World, sig event.Signal[T], h event.Handler[T]) func() {
	return event.Subscribe(w.bus, sig, h)
}

// SubscribeFunc is Subscribe for a plain function.
func SubscribeFunc[T any](w *World, sig event.Signal[T], fn func(T)) func() {
	return event.Subscribe[T](w.bus, sig, event.HandlerFunc[T](fn))
}

// AddSystem appends s to the ordered system list.
func (w *World) AddSystem(s System) {
	w.runner.Register(s)
}

// Systems returns system names in execution order.
func (w *World) Systems() []string {
	return w.runner.Names()
}

// SetClock replaces the wall clock used for system frequency caps.
func (w *World) SetClock(c system.Clock) {
	w.runner.SetClock(c)
}

// Tick delivers signals posted during the previous tick, then runs every
// due system in registration order.
func (w *World) Tick(dt time.Duration) {
	w.bus.SwapBuffers()
	w.bus.DispatchAll()
	w.runner.Tick(w, dt)
}
