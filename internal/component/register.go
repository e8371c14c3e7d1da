package component

import "github.com/l1jgo/ecsgraph/internal/snapshot"

// Register adds this package's components and resources to the given
// registries. Viewport is registered but never saved since it is Opaque.
// DragState stays out; it only describes the running session.
func Register(cr *snapshot.ComponentRegistry, rr *snapshot.ResourceRegistry) {
	snapshot.RegisterComponent(cr, PositionType)
	snapshot.RegisterComponent(cr, VelocityType)
	snapshot.RegisterComponent(cr, LabelType)
	snapshot.RegisterComponent(cr, TagsType)
	if rr != nil {
		snapshot.RegisterResource(rr, ScoreType)
		snapshot.RegisterResource(rr, ViewportType)
	}
}
