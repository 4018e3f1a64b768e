package redraw

import "github.com/dshills/slipstream/internal/rpc"

// The wire decoder hands back loosely typed values; integer width and
// signedness vary with the encoder's choice of representation. These
// helpers normalize them.

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case rpc.Buffer:
		return int(n), true
	case rpc.Window:
		return int(n), true
	case rpc.Tabpage:
		return int(n), true
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		if i, ok := toInt(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

func toBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func toArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func toMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := toString(k)
			if !ok {
				continue
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// mapInt reads an integer field, returning def when absent or mistyped.
func mapInt(m map[string]any, key string, def int) int {
	if v, ok := m[key]; ok {
		if n, ok := toInt(v); ok {
			return n
		}
	}
	return def
}

// mapBool reads a boolean field, false when absent.
func mapBool(m map[string]any, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := toBool(v); ok {
			return b
		}
	}
	return false
}

// mapString reads a string field, "" when absent.
func mapString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := toString(v); ok {
			return s
		}
	}
	return ""
}
