package component

import "github.com/l1jgo/ecsgraph/internal/core/ecs"

// Position is a point in world units. The viewport reads it every frame to
// place an entity's visual proxy and writes it back while the proxy is dragged.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Velocity is in world units per second.
type Velocity struct {
	DX float64 `json:"dx" yaml:"dx"`
	DY float64 `json:"dy" yaml:"dy"`
}

var (
	PositionType = ecs.NewComponentType[Position]("Position", nil)
	VelocityType = ecs.NewComponentType[Velocity]("Velocity", nil)
)
