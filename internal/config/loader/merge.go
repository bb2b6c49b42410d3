package loader

// Merge returns base with over laid on top of it. Tables merge key by key;
// lists and scalars in over replace the ones in base. Neither input is
// modified and the result shares no tables or lists with them, so a layer
// can be merged into several results.
func Merge(base, over map[string]any) map[string]any {
	out := copyTable(base)
	for key, v := range over {
		if sub, ok := v.(map[string]any); ok {
			if cur, ok := out[key].(map[string]any); ok {
				out[key] = Merge(cur, sub)
				continue
			}
		}
		out[key] = copyValue(v)
	}
	return out
}

func copyTable(t map[string]any) map[string]any {
	out := make(map[string]any, len(t))
	for key, v := range t {
		out[key] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return copyTable(v)
	case []any:
		list := make([]any, len(v))
		for i, item := range v {
			list[i] = copyValue(item)
		}
		return list
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}
