package system

import (
	"time"

	"github.com/l1jgo/ecsgraph/internal/component"
	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// MovementSystem integrates Velocity into Position. Entities the user is
// dragging are left where the pointer put them.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Name() string { return "movement" }

func (s *MovementSystem) Interest() []string {
	return []string{component.PositionType.Name(), component.VelocityType.Name()}
}

func (s *MovementSystem) Update(w *ecs.World, dt time.Duration) {
	secs := dt.Seconds()
	drag, _ := ecs.LookupResource(w, component.DragStateType)
	ecs.Each2(w, component.PositionType, component.VelocityType,
		func(id ecs.EntityID, p component.Position, v component.Velocity) {
			if drag != nil && drag.IsDragging(id) {
				return
			}
			p.X += v.DX * secs
			p.Y += v.DY * secs
			ecs.Set(w, id, component.PositionType, p)
		})
}
