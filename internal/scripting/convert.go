package scripting

import (
	"encoding/json"
	"fmt"
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// toLua converts a Go value to Lua by way of its JSON form, so struct tags
// decide field names exactly as they do in snapshots.
func toLua(L *lua.LState, v any) (lua.LValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return lua.LNil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return lua.LNil, err
	}
	return jsonToLua(L, generic), nil
}

func jsonToLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case float64:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case []any:
		t := L.CreateTable(len(x), 0)
		for _, item := range x {
			t.Append(jsonToLua(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(x))
		for k, item := range x {
			t.RawSetString(k, jsonToLua(L, item))
		}
		return t
	}
	return lua.LString(fmt.Sprint(v))
}

// fromLua converts a Lua value to plain JSON-shaped Go data. A table whose
// keys are exactly 1..n becomes a slice; any other non-empty table becomes
// an object. An empty table becomes nil, which decodes as a zero value.
func fromLua(v lua.LValue) any {
	switch x := v.(type) {
	case lua.LBool:
		return bool(x)
	case lua.LNumber:
		return float64(x)
	case lua.LString:
		return string(x)
	case *lua.LTable:
		return tableFromLua(x)
	}
	return nil
}

func tableFromLua(t *lua.LTable) any {
	n := t.MaxN()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })
	if count == 0 {
		return nil
	}
	if n == count {
		out := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, fromLua(t.RawGetInt(i)))
		}
		return out
	}
	out := make(map[string]any, count)
	t.ForEach(func(k, val lua.LValue) {
		switch key := k.(type) {
		case lua.LString:
			out[string(key)] = fromLua(val)
		case lua.LNumber:
			out[strconv.FormatFloat(float64(key), 'f', -1, 64)] = fromLua(val)
		}
	})
	return out
}
