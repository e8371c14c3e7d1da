package system

import "time"

// Clock returns the current wall-clock time. Tests inject a fake.
type Clock func() time.Time

type entry[W any] struct {
	sys      System[W]
	interval time.Duration // 0 = every tick
	lastRun  time.Time
	ran      bool
}

// Runner executes systems in registration order each tick.
type Runner[W any] struct {
	systems []*entry[W]
	now     Clock
}

func NewRunner[W any]() *Runner[W] {
	return &Runner[W]{
		systems: make([]*entry[W], 0, 16),
		now:     time.Now,
	}
}

// SetClock replaces the time source used for frequency gating.
func (r *Runner[W]) SetClock(c Clock) {
	if c == nil {
		c = time.Now
	}
	r.now = c
}

// Register appends s. Its last run starts as "never", so a capped system
// executes on the first tick after registration.
func (r *Runner[W]) Register(s System[W]) {
	e := &entry[W]{sys: s}
	if c, ok := s.(Capped); ok {
		if hz := c.Frequency(); hz > 0 {
			e.interval = time.Duration(float64(time.Second) / hz)
		}
	}
	r.systems = append(r.systems, e)
}

// Tick runs every due system once with (w, dt). A capped system is skipped,
// without touching its last-run time, until its interval has elapsed.
// Systems registered during a tick first run on the next one.
func (r *Runner[W]) Tick(w W, dt time.Duration) {
	systems := r.systems
	for _, e := range systems {
		if e.interval > 0 {
			now := r.now()
			if e.ran && now.Sub(e.lastRun) < e.interval {
				continue
			}
			e.sys.Update(w, dt)
			e.lastRun = now
			e.ran = true
			continue
		}
		e.sys.Update(w, dt)
	}
}

// Names returns registered system names in execution order.
func (r *Runner[W]) Names() []string {
	out := make([]string, len(r.systems))
	for i, e := range r.systems {
		out[i] = e.sys.Name()
	}
	return out
}

func (r *Runner[W]) Len() int { return len(r.systems) }
