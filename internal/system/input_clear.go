package system

import (
	"time"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
	"github.com/l1jgo/ecsgraph/internal/input"
)

// InputClearSystem ends the input frame: just-pressed and just-released
// keys are forgotten. Register it last so every other system sees them.
type InputClearSystem struct{}

func NewInputClearSystem() *InputClearSystem {
	return &InputClearSystem{}
}

func (s *InputClearSystem) Name() string { return "input_clear" }

func (s *InputClearSystem) Update(w *ecs.World, _ time.Duration) {
	if st, ok := ecs.LookupResource(w, input.StateType); ok && st != nil {
		st.EndFrame()
	}
}
