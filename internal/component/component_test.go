package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
	"github.com/l1jgo/ecsgraph/internal/snapshot"
)

type fakeSurface struct{}

func (fakeSurface) Place(ecs.EntityID, float64, float64) {}
func (fakeSurface) Remove(ecs.EntityID)                  {}

func TestViewportNeverSaved(t *testing.T) {
	cr, rr := snapshot.NewComponentRegistry(), snapshot.NewResourceRegistry()
	Register(cr, rr)

	w := ecs.NewWorld()
	ecs.SetResource(w, ViewportType, Viewport{Surface: fakeSurface{}})
	ecs.SetResource(w, ScoreType, 42)
	id := w.Spawn()
	ecs.AttachValue(w, id, PositionType, Position{X: 3, Y: 4})
	ecs.Attach(w, id, TagsType)

	snap := snapshot.SerializeWorldWithResources(w, cr, snapshot.SaveOptions{Resources: rr})
	assert.NotContains(t, snap.Resources, "Viewport")
	assert.JSONEq(t, `42`, string(snap.Resources["Score"]))
	require.Len(t, snap.Entities, 1)
	assert.JSONEq(t, `{"x":3,"y":4}`, string(snap.Entities[0].Components["Position"]))
	assert.JSONEq(t, `[]`, string(snap.Entities[0].Components["Tags"]))
}

func TestDragStateIsPerWorld(t *testing.T) {
	a, b := ecs.NewWorld(), ecs.NewWorld()
	id := a.Spawn()
	ecs.GetResource(a, DragStateType).Begin(id)

	assert.True(t, ecs.GetResource(a, DragStateType).IsDragging(id))
	assert.False(t, ecs.GetResource(b, DragStateType).IsDragging(id))

	ecs.GetResource(a, DragStateType).End(id)
	assert.False(t, ecs.GetResource(a, DragStateType).IsDragging(id))
}
