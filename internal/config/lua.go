package config

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// RunScript evaluates a Lua settings script. The script sees a global
// `slipstream` table with set(path, value) and get(path); values set there
// land in the settings document exactly as Set would place them.
func (c *Config) RunScript(path string) error {
	L := lua.NewState()
	defer L.Close()

	mod := L.NewTable()
	L.SetGlobal("slipstream", mod)

	L.SetField(mod, "set", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		val := toGoValue(L.Get(2))
		if err := c.Set(key, val); err != nil {
			L.RaiseError("set %q: %v", key, err)
		}
		return 0
	}))

	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		L.Push(toLuaValue(L, c.Get(key).Value()))
		return 1
	}))

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// toGoValue converts a Lua value to its JSON-representable Go equivalent.
// Tables with contiguous 1-based integer keys become slices, all others maps.
func toGoValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return tableToGo(v)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable) any {
	maxN := 0
	isArray := true
	t.ForEach(func(k, _ lua.LValue) {
		kn, ok := k.(lua.LNumber)
		if !ok || float64(kn) != float64(int(kn)) || int(kn) < 1 {
			isArray = false
			return
		}
		if int(kn) > maxN {
			maxN = int(kn)
		}
	})
	if isArray && maxN > 0 {
		count := 0
		t.ForEach(func(_, _ lua.LValue) { count++ })
		if count == maxN {
			arr := make([]any, maxN)
			for i := 1; i <= maxN; i++ {
				arr[i-1] = toGoValue(t.RawGetInt(i))
			}
			return arr
		}
	}

	m := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		m[k.String()] = toGoValue(v)
	})
	return m
}

func toLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case float64:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for i, e := range val {
			t.RawSetInt(i+1, toLuaValue(L, e))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, e := range val {
			L.SetField(t, k, toLuaValue(L, e))
		}
		return t
	default:
		return lua.LNil
	}
}
