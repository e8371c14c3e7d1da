package component

import "github.com/l1jgo/ecsgraph/internal/core/ecs"

// Label is a display name, also used by data files to refer to spawned
// prefab instances.
type Label struct {
	Name string `json:"name" yaml:"name"`
}

// Tags holds free-form markers.
type Tags []string

var (
	LabelType = ecs.NewComponentType[Label]("Label", nil)
	TagsType  = ecs.NewComponentType[Tags]("Tags", func() Tags { return Tags{} })

	// ScoreType is a plain counter resource.
	ScoreType = ecs.NewResourceType[int]("Score", nil)
)
