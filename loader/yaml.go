// Package loader implements the YAML Loader, Import Graph Builder, Ref
// Inliner, and Import Merger (spec.md §4.3-4.5), generalizing the
// teacher's config.FileSource / config.DeepMergeConfigs machinery from a
// single flat WorkflowConfig to the DSL's import-graph-with-merge-rules
// semantics.
package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/opencm/cloudify-common-opencm/dslerr"
)

// Doc is a parsed YAML mapping document. Scalars decode to their native
// Go type (string, int, float64, bool) rather than a uniform textual
// form, so the merge and inheritance passes downstream never need a
// bespoke tagged-variant type — see DESIGN.md for this tradeoff.
type Doc = map[string]any

// LoadYAML parses raw bytes as a YAML mapping document. An unparsable
// document raises CodeIllegalYAML (-1); an empty document raises
// CodeEmptyYAML (0), both matching the original parser's _load_yaml.
func LoadYAML(data []byte, errMessage string) (Doc, error) {
	var parsed any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, dslerr.NewFormat(dslerr.CodeIllegalYAML, "%s: Illegal yaml; %s", errMessage, err)
	}
	if parsed == nil {
		return nil, dslerr.NewFormat(dslerr.CodeEmptyYAML, "%s: Empty yaml", errMessage)
	}
	doc, ok := normalizeMap(parsed)
	if !ok {
		return nil, dslerr.NewFormat(dslerr.CodeIllegalYAML, "%s: Illegal yaml; document root is not a mapping", errMessage)
	}
	return doc, nil
}

// normalizeMap converts yaml.v3's decoded value into Doc, recursively
// normalizing nested map[string]interface{} (yaml.v3 already decodes
// mapping keys to strings when possible; this guards the rare case of
// non-string keys by stringifying them, matching Go's loose assertion
// idiom rather than failing the whole document).
func normalizeMap(v any) (Doc, bool) {
	switch m := v.(type) {
	case map[string]any:
		return normalizeValues(m), true
	case map[any]any:
		out := make(Doc, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			out[key] = normalizeValue(val)
		}
		return out, true
	default:
		return nil, false
	}
}

func normalizeValues(m map[string]any) Doc {
	out := make(Doc, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return normalizeValues(val)
	case map[any]any:
		out := make(Doc, len(val))
		for k, vv := range val {
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			out[key] = normalizeValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return val
	}
}
