package scripting

import (
	"encoding/json"

	lua "github.com/yuin/gopher-lua"

	"github.com/l1jgo/ecsgraph/internal/core/ecs"
)

// installECS registers the global ecs table. Entity ids cross into Lua as
// strings; component values as plain tables, numbers, strings and booleans.
func (e *Engine) installECS() {
	mod := e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"spawn":   e.luaSpawn,
		"despawn": e.luaDespawn,
		"exists":  e.luaExists,
		"query":   e.luaQuery,
		"get":     e.luaGet,
		"set":     e.luaSet,
		"attach":  e.luaAttach,
		"detach":  e.luaDetach,
	})
	e.vm.SetGlobal("ecs", mod)
}

func (e *Engine) boundWorld(L *lua.LState) *ecs.World {
	if e.world == nil {
		L.RaiseError("ecs: no world bound; call through a system")
	}
	return e.world
}

func checkID(L *lua.LState, n int) ecs.EntityID {
	id, err := ecs.ParseEntityID(L.CheckString(n))
	if err != nil {
		L.ArgError(n, "entity id: "+err.Error())
	}
	return id
}

func (e *Engine) luaSpawn(L *lua.LState) int {
	w := e.boundWorld(L)
	L.Push(lua.LString(w.Spawn().String()))
	return 1
}

func (e *Engine) luaDespawn(L *lua.LState) int {
	w := e.boundWorld(L)
	w.Despawn(checkID(L, 1))
	return 0
}

func (e *Engine) luaExists(L *lua.LState) int {
	w := e.boundWorld(L)
	L.Push(lua.LBool(w.Exists(checkID(L, 1))))
	return 1
}

// ecs.query(name, ...) returns an array of ids having every named
// component. An unregistered name matches nothing.
func (e *Engine) luaQuery(L *lua.LState) int {
	w := e.boundWorld(L)
	keys := make([]ecs.ComponentKey, 0, L.GetTop())
	out := L.NewTable()
	for i := 1; i <= L.GetTop(); i++ {
		key, ok := e.components.Key(L.CheckString(i))
		if !ok {
			L.Push(out)
			return 1
		}
		keys = append(keys, key)
	}
	for _, id := range w.Query(keys...) {
		out.Append(lua.LString(id.String()))
	}
	L.Push(out)
	return 1
}

func (e *Engine) luaGet(L *lua.LState) int {
	w := e.boundWorld(L)
	id := checkID(L, 1)
	v, ok := e.components.Get(w, id, L.CheckString(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	lv, err := toLua(L, v)
	if err != nil {
		L.RaiseError("ecs.get: %s", err)
	}
	L.Push(lv)
	return 1
}

func (e *Engine) luaSet(L *lua.LState) int {
	w := e.boundWorld(L)
	id := checkID(L, 1)
	name := L.CheckString(2)
	raw := e.encodeArg(L, 3)
	if err := e.components.Set(w, id, name, raw); err != nil {
		L.RaiseError("ecs.set: %s", err)
	}
	return 0
}

// ecs.attach(id, name [, value]) attaches value, or the component default
// when value is omitted.
func (e *Engine) luaAttach(L *lua.LState) int {
	w := e.boundWorld(L)
	id := checkID(L, 1)
	name := L.CheckString(2)
	var err error
	if L.GetTop() < 3 || L.Get(3) == lua.LNil {
		err = e.components.AttachDefault(w, id, name)
	} else {
		err = e.components.Attach(w, id, name, e.encodeArg(L, 3))
	}
	if err != nil {
		L.RaiseError("ecs.attach: %s", err)
	}
	return 0
}

func (e *Engine) luaDetach(L *lua.LState) int {
	w := e.boundWorld(L)
	id := checkID(L, 1)
	if key, ok := e.components.Key(L.CheckString(2)); ok {
		w.Detach(id, key)
	}
	return 0
}

func (e *Engine) encodeArg(L *lua.LState, n int) []byte {
	raw, err := json.Marshal(fromLua(L.Get(n)))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return raw
}
