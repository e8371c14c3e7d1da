package system

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/l1jgo/ecsgraph/internal/component"
	"github.com/l1jgo/ecsgraph/internal/core/ecs"
	"github.com/l1jgo/ecsgraph/internal/input"
	"github.com/l1jgo/ecsgraph/internal/snapshot"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCleanupFlushesDeferredDespawns(t *testing.T) {
	w := ecs.NewWorld()
	id := w.Spawn()
	ecs.Attach(w, id, component.PositionType)
	w.AddSystem(ecs.SystemFunc{Label: "reaper", Fn: func(w *ecs.World, _ time.Duration) {
		for _, e := range w.Query(component.PositionType) {
			w.DespawnLater(e)
		}
	}})
	w.AddSystem(NewCleanupSystem())

	w.Tick(time.Millisecond)
	assert.False(t, w.Exists(id))
	assert.Empty(t, w.Query(component.PositionType))
}

func TestMovementIntegratesVelocity(t *testing.T) {
	w := ecs.NewWorld()
	moving := w.Spawn()
	ecs.AttachValue(w, moving, component.PositionType, component.Position{X: 1, Y: 1})
	ecs.AttachValue(w, moving, component.VelocityType, component.Velocity{DX: 10, DY: -20})
	still := w.Spawn()
	ecs.AttachValue(w, still, component.PositionType, component.Position{X: 5})

	w.AddSystem(NewMovementSystem())
	w.Tick(100 * time.Millisecond)

	p, _ := ecs.Get(w, moving, component.PositionType)
	assert.InDelta(t, 2.0, p.X, 1e-9)
	assert.InDelta(t, -1.0, p.Y, 1e-9)
	p, _ = ecs.Get(w, still, component.PositionType)
	assert.Equal(t, component.Position{X: 5}, p)
}

func TestMovementSkipsDraggedEntities(t *testing.T) {
	w := ecs.NewWorld()
	id := w.Spawn()
	ecs.AttachValue(w, id, component.PositionType, component.Position{})
	ecs.AttachValue(w, id, component.VelocityType, component.Velocity{DX: 1})
	ecs.GetResource(w, component.DragStateType).Begin(id)

	w.AddSystem(NewMovementSystem())
	w.Tick(time.Second)

	p, _ := ecs.Get(w, id, component.PositionType)
	assert.Equal(t, 0.0, p.X)
}

func TestInputClearRunsAfterReaders(t *testing.T) {
	w := ecs.NewWorld()
	st := ecs.GetResource(w, input.StateType)
	var sawPress []bool
	w.AddSystem(ecs.SystemFunc{Label: "reader", Fn: func(w *ecs.World, _ time.Duration) {
		sawPress = append(sawPress, ecs.GetResource(w, input.StateType).WasKeyPressed("a"))
	}})
	w.AddSystem(NewInputClearSystem())

	st.KeyDown("a")
	w.Tick(time.Millisecond)
	w.Tick(time.Millisecond)
	assert.Equal(t, []bool{true, false}, sawPress)
	assert.True(t, st.IsKeyDown("a"))
}

func TestInputClearDoesNotCreateResource(t *testing.T) {
	w := ecs.NewWorld()
	w.AddSystem(NewInputClearSystem())
	w.Tick(time.Millisecond)
	assert.False(t, w.HasResource(input.StateType.Name()))
}

type recordingSurface struct {
	placed  map[ecs.EntityID]component.Position
	removed []ecs.EntityID
}

func (s *recordingSurface) Place(id ecs.EntityID, x, y float64) {
	s.placed[id] = component.Position{X: x, Y: y}
}

func (s *recordingSurface) Remove(id ecs.EntityID) {
	delete(s.placed, id)
	s.removed = append(s.removed, id)
}

func TestViewportSync(t *testing.T) {
	w := ecs.NewWorld()
	surface := &recordingSurface{placed: map[ecs.EntityID]component.Position{}}
	ecs.SetResource(w, component.ViewportType, component.Viewport{Surface: surface})
	sync := NewViewportSyncSystem(w)
	defer sync.Close()
	w.AddSystem(sync)

	a := w.Spawn()
	ecs.AttachValue(w, a, component.PositionType, component.Position{X: 1, Y: 2})
	b := w.Spawn()
	ecs.AttachValue(w, b, component.PositionType, component.Position{X: 3, Y: 4})
	w.Tick(time.Millisecond)
	assert.Equal(t, component.Position{X: 1, Y: 2}, surface.placed[a])
	assert.Len(t, surface.placed, 2)

	w.Despawn(b)
	w.Tick(time.Millisecond)
	assert.Equal(t, []ecs.EntityID{b}, surface.removed)
	assert.Len(t, surface.placed, 1)
}

func TestViewportSyncWithoutViewport(t *testing.T) {
	w := ecs.NewWorld()
	sync := NewViewportSyncSystem(w)
	w.AddSystem(sync)
	w.Despawn(w.Spawn())
	w.Tick(time.Millisecond)
	assert.Empty(t, sync.gone)
	assert.False(t, w.HasResource(component.ViewportType.Name()))
}

type fakeSaver struct {
	saved []*snapshot.Snapshot
	names []string
	err   error
}

func (f *fakeSaver) Save(_ context.Context, name string, s *snapshot.Snapshot) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, s)
	f.names = append(f.names, name)
	return nil
}

func registries() (*snapshot.ComponentRegistry, *snapshot.ResourceRegistry) {
	cr, rr := snapshot.NewComponentRegistry(), snapshot.NewResourceRegistry()
	component.Register(cr, rr)
	return cr, rr
}

func TestAutosaveIsFrequencyCapped(t *testing.T) {
	cr, rr := registries()
	w := ecs.NewWorld()
	clock := &fakeClock{now: time.Unix(1000, 0)}
	w.SetClock(clock.Now)

	id := w.Spawn()
	ecs.AttachValue(w, id, component.PositionType, component.Position{X: 1, Y: 2})
	ecs.SetResource(w, component.ScoreType, 10)

	saver := &fakeSaver{}
	sys := NewAutosaveSystem(saver, "level1", 1, cr, snapshot.SaveOptions{Resources: rr}, nil)
	w.AddSystem(sys)

	for i := 0; i < 25; i++ {
		w.Tick(100 * time.Millisecond)
		clock.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 3, sys.Saves())
	require.Len(t, saver.saved, 3)
	assert.Equal(t, "level1", saver.names[0])
	assert.Len(t, saver.saved[0].Entities, 1)
	assert.JSONEq(t, `10`, string(saver.saved[0].Resources["Score"]))
}

func TestAutosaveLogsFailures(t *testing.T) {
	cr, _ := registries()
	core, logs := observer.New(zapcore.InfoLevel)
	w := ecs.NewWorld()
	saver := &fakeSaver{err: errors.New("disk full")}
	sys := NewAutosaveSystem(saver, "w", 0, cr, snapshot.SaveOptions{}, zap.New(core))
	w.AddSystem(sys)

	w.Tick(time.Millisecond)
	assert.Equal(t, 0, sys.Saves())
	assert.Equal(t, 1, logs.FilterMessage("autosave failed").Len())
}

func TestAutosaveWarnsAboutInvisibleEntities(t *testing.T) {
	cr, _ := registries()
	core, logs := observer.New(zapcore.InfoLevel)
	w := ecs.NewWorld()
	w.Spawn() // no registered components
	sys := NewAutosaveSystem(&fakeSaver{}, "w", 0, cr, snapshot.SaveOptions{}, zap.New(core))

	require.NoError(t, sys.SaveNow(w))
	assert.Equal(t, 1, logs.FilterMessage("snapshot saved without some live entities").Len())
}
