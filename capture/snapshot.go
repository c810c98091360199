package capture

// snapshot copies v so that later in-place changes to the original are not observed.
// Lists, maps and objects are copied deeply; other values are immutable or opaque.
func snapshot(v any) any {
	switch v := v.(type) {
	case []any:
		ret := make([]any, len(v))
		for i, elem := range v {
			ret[i] = snapshot(elem)
		}
		return ret
	case map[string]any:
		ret := make(map[string]any, len(v))
		for k, elem := range v {
			ret[k] = snapshot(elem)
		}
		return ret
	case *Object:
		if v == nil {
			return v
		}
		return v.Clone()
	}
	return v
}
