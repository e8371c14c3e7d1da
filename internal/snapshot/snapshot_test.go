package snapshot

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

type position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type callback struct {
	Fn func()
}

type handle struct{ ptr uintptr }

func (handle) Opaque() {}

var (
	positionType = ecs.NewComponentType[position]("Position", nil)
	callbackType = ecs.NewComponentType[callback]("Callback", nil)
	tagType      = ecs.NewComponentType[string]("Tag", nil)
	unregistered = ecs.NewComponentType[int]("Unregistered", nil)
	scoreType    = ecs.NewResourceType[int]("Score", nil)
	handleType   = ecs.NewResourceType[handle]("Viewport", nil)
	levelType    = ecs.NewResourceType[string]("Level", func() string { return "intro" })
)

func registries() (*ComponentRegistry, *ResourceRegistry) {
	cr := NewComponentRegistry()
	RegisterComponent(cr, positionType)
	RegisterComponent(cr, callbackType)
	RegisterComponent(cr, tagType)
	rr := NewResourceRegistry()
	RegisterResource(rr, scoreType)
	RegisterResource(rr, handleType)
	RegisterResource(rr, levelType)
	return cr, rr
}

func TestRoundTrip(t *testing.T) {
	cr, rr := registries()
	w := ecs.NewWorld()
	e := w.Spawn()
	ecs.AttachValue(w, e, positionType, position{X: 1, Y: 2})
	ecs.SetResource(w, scoreType, 10)

	snap := SerializeWorldWithResources(w, cr, SaveOptions{Resources: rr})
	data, err := Marshal(snap)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	restored, mapping, err := DeserializeWorldWithMapping(parsed, LoadOptions{Components: cr, Resources: rr})
	require.NoError(t, err)

	ids := restored.Query(positionType)
	require.Len(t, ids, 1)
	assert.NotEqual(t, e, ids[0])
	assert.Equal(t, ids[0], mapping[e.String()])

	p, ok := ecs.Get(restored, ids[0], positionType)
	require.True(t, ok)
	assert.Equal(t, position{X: 1, Y: 2}, p)
	assert.Equal(t, 10, ecs.GetResource(restored, scoreType))
}

func TestDocumentShape(t *testing.T) {
	cr, _ := registries()
	w := ecs.NewWorld()
	e := w.Spawn()
	ecs.AttachValue(w, e, tagType, "hero")

	data, err := Marshal(SerializeWorld(w, cr))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"version":1,"entities":[{"id":"`+e.String()+`","components":{"Tag":"hero"}}],"resources":{}}`,
		string(data))
}

func TestVersionRejected(t *testing.T) {
	_, err := Parse([]byte(`{"version":2,"entities":[],"resources":{}}`))
	assert.ErrorIs(t, err, ErrVersionMismatch)

	w, err := DeserializeWorld(&Snapshot{Version: 2}, LoadOptions{Components: NewComponentRegistry()})
	assert.ErrorIs(t, err, ErrVersionMismatch)
	assert.Nil(t, w)
}

func TestMalformedShape(t *testing.T) {
	cases := map[string]string{
		"not json":            `{`,
		"null":                `null`,
		"no version":          `{"entities":[],"resources":{}}`,
		"entities object":     `{"version":1,"entities":{},"resources":{}}`,
		"entities missing":    `{"version":1,"resources":{}}`,
		"resources null":      `{"version":1,"entities":[],"resources":null}`,
		"resources array":     `{"version":1,"entities":[],"resources":[]}`,
		"entity not object":   `{"version":1,"entities":[1],"resources":{}}`,
		"entity id number":    `{"version":1,"entities":[{"id":7}],"resources":{}}`,
		"components an array": `{"version":1,"entities":[{"id":"a","components":[]}],"resources":{}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseEntityWithoutComponents(t *testing.T) {
	s, err := Parse([]byte(`{"version":1,"entities":[{"id":"a"}],"resources":{}}`))
	require.NoError(t, err)
	require.Len(t, s.Entities, 1)
	assert.Empty(t, s.Entities[0].Components)
}

func TestNonSerializableDropped(t *testing.T) {
	cr, rr := registries()
	w := ecs.NewWorld()
	e := w.Spawn()
	ecs.AttachValue(w, e, callbackType, callback{Fn: func() {}})
	ecs.AttachValue(w, e, tagType, "kept")
	ecs.SetResource(w, handleType, handle{ptr: 1})
	ecs.SetResource(w, scoreType, 3)

	snap := SerializeWorldWithResources(w, cr, SaveOptions{Resources: rr})
	require.Len(t, snap.Entities, 1)
	assert.NotContains(t, snap.Entities[0].Components, "Callback")
	assert.Contains(t, snap.Entities[0].Components, "Tag")
	assert.NotContains(t, snap.Resources, "Viewport")
	assert.Contains(t, snap.Resources, "Score")
}

func TestUninitializedResourceNotSaved(t *testing.T) {
	cr, rr := registries()
	w := ecs.NewWorld()
	snap := SerializeWorldWithResources(w, cr, SaveOptions{Resources: rr})
	assert.Empty(t, snap.Resources)
	assert.False(t, w.HasResource("Level"))
}

func TestIncludeExclude(t *testing.T) {
	cr, rr := registries()
	w := ecs.NewWorld()
	ecs.SetResource(w, scoreType, 1)
	ecs.SetResource(w, levelType, "boss")

	snap := SerializeWorldWithResources(w, cr, SaveOptions{Resources: rr, Include: []string{"Score"}})
	assert.Equal(t, []string{"Score"}, sortedKeys(snap.Resources))

	snap = SerializeWorldWithResources(w, cr, SaveOptions{Resources: rr, Exclude: []string{"Score"}})
	assert.Equal(t, []string{"Level"}, sortedKeys(snap.Resources))

	snap = SerializeWorldWithResources(w, cr, SaveOptions{
		Resources: rr,
		Include:   []string{"Score", "Level"},
		Exclude:   []string{"Score"},
	})
	assert.Equal(t, []string{"Level"}, sortedKeys(snap.Resources))
}

func TestUnknownNamesSkipped(t *testing.T) {
	cr, rr := registries()
	core, logs := observer.New(zapcore.WarnLevel)
	doc := `{"version":1,
		"entities":[{"id":"old","components":{"Ghost":{"a":1},"Tag":"t","Position":"bad"}}],
		"resources":{"Weather":"rain","Score":4}}`

	s, err := Parse([]byte(doc))
	require.NoError(t, err)
	w, err := DeserializeWorld(s, LoadOptions{Components: cr, Resources: rr, Log: zap.New(core)})
	require.NoError(t, err)

	ids := w.Query(tagType)
	require.Len(t, ids, 1)
	assert.False(t, w.Has(ids[0], positionType))
	assert.Equal(t, 4, ecs.GetResource(w, scoreType))
	assert.Equal(t, 1, logs.FilterMessage("unknown component skipped").Len())
	assert.Equal(t, 1, logs.FilterMessage("unknown resource skipped").Len())
	assert.Equal(t, 1, logs.FilterMessage("component value skipped").Len())
}

func TestRestoreWithoutResourceRegistry(t *testing.T) {
	cr, _ := registries()
	s, err := Parse([]byte(`{"version":1,"entities":[],"resources":{"Score":4}}`))
	require.NoError(t, err)
	w, err := DeserializeWorld(s, LoadOptions{Components: cr})
	require.NoError(t, err)
	assert.False(t, w.HasResource("Score"))
}

func TestCoverageExposesInvisibleEntities(t *testing.T) {
	cr, _ := registries()
	w := ecs.NewWorld()
	a := w.Spawn()
	ecs.AttachValue(w, a, tagType, "a")
	b := w.Spawn()
	ecs.AttachValue(w, b, unregistered, 1)
	w.Spawn()

	discovered, live := Coverage(w, cr)
	assert.Equal(t, 1, discovered)
	assert.Equal(t, 3, live)
	assert.Len(t, SerializeWorld(w, cr).Entities, 1)
}

func TestDiscoveryUnionHasNoDuplicates(t *testing.T) {
	cr, _ := registries()
	w := ecs.NewWorld()
	a := w.Spawn()
	ecs.AttachValue(w, a, tagType, "a")
	ecs.AttachValue(w, a, positionType, position{})
	b := w.Spawn()
	ecs.AttachValue(w, b, tagType, "b")

	snap := SerializeWorld(w, cr)
	require.Len(t, snap.Entities, 2)
	assert.Equal(t, a.String(), snap.Entities[0].ID)
	assert.Len(t, snap.Entities[0].Components, 2)
}

func TestRegistryNamesAreNFC(t *testing.T) {
	cr := NewComponentRegistry()
	decomposed := ecs.NewComponentType[int]("Cafe\u0301", nil)
	RegisterComponent(cr, decomposed)
	assert.True(t, cr.Has("Caf\u00e9"))
	assert.True(t, cr.Has("Cafe\u0301"))
	assert.Equal(t, []string{"Caf\u00e9"}, cr.Names())

	w := ecs.NewWorld()
	id := w.Spawn()
	require.NoError(t, cr.Attach(w, id, "Caf\u00e9", []byte(`5`)))
	v, ok := ecs.Get(w, id, decomposed)
	require.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestRegistryConflictPanics(t *testing.T) {
	cr := NewComponentRegistry()
	RegisterComponent(cr, ecs.NewComponentType[int]("Hp", nil))
	RegisterComponent(cr, ecs.NewComponentType[int]("Hp", nil))
	assert.Len(t, cr.Names(), 1)
	assert.Panics(t, func() {
		RegisterComponent(cr, ecs.NewComponentType[string]("Hp", nil))
	})
}

func TestRegistrySetAndUnknown(t *testing.T) {
	cr, _ := registries()
	w := ecs.NewWorld()
	id := w.Spawn()

	require.NoError(t, cr.Set(w, id, "Tag", []byte(`"x"`)))
	assert.False(t, w.Has(id, tagType))

	ecs.Attach(w, id, tagType)
	require.NoError(t, cr.Set(w, id, "Tag", []byte(`"x"`)))
	v, _ := cr.Get(w, id, "Tag")
	assert.Equal(t, "x", v)

	assert.ErrorIs(t, cr.Attach(w, id, "Nope", []byte(`1`)), ErrUnknownName)
	assert.Error(t, cr.Attach(w, id, "Tag", []byte(`1`)))
}

func TestSerializable(t *testing.T) {
	type node struct {
		Next *node
	}
	loop := &node{}
	loop.Next = loop

	type hidden struct {
		Fn   func() `json:"-"`
		fn   func()
		Name string
	}

	good := []any{
		nil, 1, "s", true, 1.5,
		position{X: 1},
		[]position{{}, {}},
		map[string]any{"a": []any{1, "b", map[string]int{"c": 1}}},
		&position{},
		[]byte("raw"),
		hidden{Fn: func() {}, fn: func() {}},
		ecs.NewEntityID(),
		json.RawMessage(`{"a":1}`),
	}
	for _, v := range good {
		assert.True(t, Serializable(v), "%#v", v)
	}

	bad := []any{
		func() {},
		make(chan int),
		complex(1, 2),
		math.NaN(),
		math.Inf(1),
		map[int]string{1: "a"},
		map[string]any{"f": func() {}},
		[]any{1, make(chan int)},
		struct{ Inner callback }{Inner: callback{Fn: func() {}}},
		handle{},
		[]any{handle{}},
		loop,
	}
	for _, v := range bad {
		assert.False(t, Serializable(v), "%T", v)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.json")
	in := &Snapshot{
		Version:   Version,
		Entities:  []Entity{{ID: "a", Components: map[string]json.RawMessage{"Tag": json.RawMessage(`"x"`)}}},
		Resources: map[string]json.RawMessage{"Score": json.RawMessage(`2`)},
	}
	require.NoError(t, WriteFile(path, in))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	out, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, out.Entities, 1)
	assert.Equal(t, "a", out.Entities[0].ID)
	assert.JSONEq(t, `"x"`, string(out.Entities[0].Components["Tag"]))
	assert.JSONEq(t, `2`, string(out.Resources["Score"]))
}
