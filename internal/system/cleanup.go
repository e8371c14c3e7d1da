package system

import (
	"time"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// CleanupSystem flushes the deferred despawn queue. Register it after every
// system that calls DespawnLater.
type CleanupSystem struct{}

func NewCleanupSystem() *CleanupSystem {
	return &CleanupSystem{}
}

func (s *CleanupSystem) Name() string { return "cleanup" }

func (s *CleanupSystem) Update(w *ecs.World, _ time.Duration) {
	w.FlushDespawns()
}
