package scripting

import (
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// ScriptSystem runs a global Lua function once per tick as fn(dt_seconds).
// Errors are logged and the tick continues.
type ScriptSystem struct {
	engine *Engine
	fn     string
	hz     float64
	log    *zap.Logger
}

func NewScriptSystem(engine *Engine, fn string, hz float64) *ScriptSystem {
	return &ScriptSystem{engine: engine, fn: fn, hz: hz, log: engine.log}
}

func (s *ScriptSystem) Name() string       { return "lua:" + s.fn }
func (s *ScriptSystem) Frequency() float64 { return s.hz }

func (s *ScriptSystem) Update(w *ecs.World, dt time.Duration) {
	if err := s.engine.Call(w, s.fn, dt); err != nil {
		s.log.Error("lua system error", zap.String("func", s.fn), zap.Error(err))
	}
}
