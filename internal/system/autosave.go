package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
	"github.com/l1jgo/ecsgraph/internal/snapshot"
)

// SnapshotSaver is where AutosaveSystem writes; persist.SnapshotRepo and
// persist.FileStore both satisfy it.
type SnapshotSaver interface {
	Save(ctx context.Context, name string, s *snapshot.Snapshot) error
}

// AutosaveSystem periodically snapshots the World and hands the document to
// a SnapshotSaver. The rate comes from Frequency, so the Runner gates it.
type AutosaveSystem struct {
	saver      SnapshotSaver
	name       string
	hz         float64
	components *snapshot.ComponentRegistry
	opts       snapshot.SaveOptions
	log        *zap.Logger
	timeout    time.Duration
	saves      int
}

func NewAutosaveSystem(saver SnapshotSaver, name string, hz float64, components *snapshot.ComponentRegistry, opts snapshot.SaveOptions, log *zap.Logger) *AutosaveSystem {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Log == nil {
		opts.Log = log
	}
	return &AutosaveSystem{
		saver:      saver,
		name:       name,
		hz:         hz,
		components: components,
		opts:       opts,
		log:        log,
		timeout:    5 * time.Second,
	}
}

func (s *AutosaveSystem) Name() string       { return "autosave" }
func (s *AutosaveSystem) Frequency() float64 { return s.hz }

func (s *AutosaveSystem) Update(w *ecs.World, _ time.Duration) {
	if err := s.SaveNow(w); err != nil {
		s.log.Error("autosave failed", zap.String("world", s.name), zap.Error(err))
	}
}

// SaveNow writes a snapshot immediately; used for the final save on shutdown.
func (s *AutosaveSystem) SaveNow(w *ecs.World) error {
	snap := snapshot.SerializeWorldWithResources(w, s.components, s.opts)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.saver.Save(ctx, s.name, snap); err != nil {
		return err
	}
	s.saves++

	discovered, live := snapshot.Coverage(w, s.components)
	fields := []zap.Field{
		zap.String("world", s.name),
		zap.Int("entities", len(snap.Entities)),
		zap.Int("resources", len(snap.Resources)),
	}
	if discovered < live {
		s.log.Warn("snapshot saved without some live entities",
			append(fields, zap.Int("live", live))...)
		return nil
	}
	s.log.Info("snapshot saved", fields...)
	return nil
}

// Saves reports how many snapshots were written.
func (s *AutosaveSystem) Saves() int { return s.saves }
