package loader

// DeepCopy recursively copies a decoded YAML value (Doc, []any, or a
// scalar). The import merger and the inheritance resolver copy before
// mutating, the way the original parser's extract_complete_type_recursive
// calls copy.deepcopy; the ref inliner rewrites its document in place.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case Doc:
		out := make(Doc, len(t))
		for k, val := range t {
			out[k] = DeepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = DeepCopy(val)
		}
		return out
	default:
		return t
	}
}
