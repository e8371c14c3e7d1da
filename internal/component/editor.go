package component

import "github.com/l1jgo/ecsgraph/internal/core/ecs"

// DragState records which entities the user is dragging in the viewport.
// Systems that move entities skip these so the pointer stays in control.
type DragState struct {
	Dragging map[ecs.EntityID]struct{} `json:"-"`
}

func NewDragState() *DragState {
	return &DragState{Dragging: make(map[ecs.EntityID]struct{})}
}

func (d *DragState) Begin(id ecs.EntityID) { d.Dragging[id] = struct{}{} }
func (d *DragState) End(id ecs.EntityID)   { delete(d.Dragging, id) }

func (d *DragState) IsDragging(id ecs.EntityID) bool {
	_, ok := d.Dragging[id]
	return ok
}

// Surface is the drawing side of a viewport. Implemented outside this module.
type Surface interface {
	Place(id ecs.EntityID, x, y float64)
	Remove(id ecs.EntityID)
}

// Viewport is the resource through which systems reach the visualization
// layer. It holds a live handle and is never saved.
type Viewport struct {
	Surface Surface
}

func (Viewport) Opaque() {}

var (
	DragStateType = ecs.NewResourceType[*DragState]("DragState", NewDragState)
	ViewportType  = ecs.NewResourceType[Viewport]("Viewport", nil)
)
