package system

import (
	"time"

	"github.com/l1jgo/ecsgraph/internal/component"
	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// ViewportSyncSystem pushes every Position to the viewport surface and
// removes proxies of despawned entities. Without a Viewport resource it
// does nothing.
type ViewportSyncSystem struct {
	unsubscribe func()
	gone        []ecs.EntityID
}

// NewViewportSyncSystem subscribes to w's despawn signal; call Close to
// stop listening.
func NewViewportSyncSystem(w *ecs.World) *ViewportSyncSystem {
	s := &ViewportSyncSystem{}
	s.unsubscribe = ecs.SubscribeFunc(w, ecs.Despawned, func(id ecs.EntityID) {
		s.gone = append(s.gone, id)
	})
	return s
}

func (s *ViewportSyncSystem) Name() string { return "viewport_sync" }

func (s *ViewportSyncSystem) Update(w *ecs.World, _ time.Duration) {
	vp, ok := ecs.LookupResource(w, component.ViewportType)
	if !ok || vp.Surface == nil {
		s.gone = s.gone[:0]
		return
	}
	for _, id := range s.gone {
		vp.Surface.Remove(id)
	}
	s.gone = s.gone[:0]
	ecs.Each(w, component.PositionType, func(id ecs.EntityID, p component.Position) {
		vp.Surface.Place(id, p.X, p.Y)
	})
}

func (s *ViewportSyncSystem) Close() {
	s.unsubscribe()
}
