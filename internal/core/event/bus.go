package event

import (
	"fmt"
	"slices"
)

// Signal is a named event channel carrying payloads of type T. It holds no
// state; subscribers live in a Bus.
type Signal[T any] struct {
	name string
}

func NewSignal[T any](name string) Signal[T] {
	return Signal[T]{name: name}
}

func (s Signal[T]) Name() string { return s.name }

// Handler receives signal payloads.
type Handler[T any] interface {
	Handle(payload T)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc[T any] func(T)

func (f HandlerFunc[T]) Handle(payload T) { f(payload) }

type subscription struct {
	id      uint64
	handler any
}

// Bus holds per-signal subscriber lists and a double-buffered queue for
// deferred payloads. Emit is synchronous. Post queues into the back buffer;
// SwapBuffers + DispatchAll deliver the queue at the next tick start.
// Not safe for concurrent use: the World runs single-threaded.
type Bus struct {
	subs   map[string][]subscription
	nextID uint64
	front  []pending
	back   []pending
}

type pending struct {
	signal  string
	deliver func()
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[string][]subscription),
	}
}

// Emit invokes every current subscriber of sig in subscription order.
// Subscribers added or removed by a handler take effect from the next Emit.
func Emit[T any](b *Bus, sig Signal[T], payload T) {
	subs := b.subs[sig.name]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		h, ok := s.handler.(Handler[T])
		if !ok {
			panic(fmt.Sprintf("event: signal %q subscribed with %T, emitted as %T", sig.name, s.handler, payload))
		}
		h.Handle(payload)
	}
}

// Subscribe registers h on sig and returns a function removing exactly this
// registration. Calling it more than once is a no-op.
func Subscribe[T any](b *Bus, sig Signal[T], h Handler[T]) (unsubscribe func()) {
	b.nextID++
	id := b.nextID
	b.subs[sig.name] = append(b.subs[sig.name], subscription{id: id, handler: h})
	return func() {
		b.remove(sig.name, id)
	}
}

// Post queues payload for delivery on the next DispatchAll after a swap.
func Post[T any](b *Bus, sig Signal[T], payload T) {
	b.back = append(b.back, pending{
		signal:  sig.name,
		deliver: func() { Emit(b, sig, payload) },
	})
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front[:0]
}

// DispatchAll delivers all front-buffer payloads in posting order.
func (b *Bus) DispatchAll() {
	for i := range b.front {
		b.front[i].deliver()
		b.front[i] = pending{}
	}
	b.front = b.front[:0]
}

// Subscribers returns how many handlers are registered on a signal name.
func (b *Bus) Subscribers(name string) int {
	return len(b.subs[name])
}

func (b *Bus) remove(name string, id uint64) {
	subs := b.subs[name]
	for i, s := range subs {
		if s.id != id {
			continue
		}
		subs = slices.Delete(subs, i, i+1)
		if len(subs) == 0 {
			delete(b.subs, name)
		} else {
			b.subs[name] = subs
		}
		return
	}
}
