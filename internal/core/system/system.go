package system

import "time"

// System is the interface every ECS system implements. W is the world type
// the system transforms; the ecs package instantiates it with *ecs.World.
type System[W any] interface {
	Name() string
	Update(w W, dt time.Duration)
}

// Capped is implemented by systems that run at most Frequency() times per
// second. A non-positive frequency means uncapped.
type Capped interface {
	Frequency() float64
}

// Interested is implemented by systems that declare the component names
// they read or write. The Runner does not enforce it.
type Interested interface {
	Interest() []string
}

// Func adapts a plain function into a System.
type Func[W any] struct {
	Label      string
	Components []string
	Hz         float64
	Fn         func(w W, dt time.Duration)
}

func (f Func[W]) Name() string       { return f.Label }
func (f Func[W]) Interest() []string { return f.Components }
func (f Func[W]) Frequency() float64 { return f.Hz }
func (f Func[W]) Update(w W, dt time.Duration) {
	if f.Fn != nil {
		f.Fn(w, dt)
	}
}
