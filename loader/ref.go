package loader

import (
	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/resource"
)

// InlineRefs walks every mapping/sequence in doc, replacing the value of
// any "ref" key with the raw textual contents of the referenced
// resource, resolved against docURL (spec.md §4.4). Substitution
// replaces the field's value with *text*, never a re-parsed structure —
// downstream consumers (e.g. a "radial" workflow body) treat it as
// opaque (spec.md §9 "Ref inlining").
func InlineRefs(v any, docURL string, resolver *resource.Resolver, aliases *resource.AliasMapper) error {
	switch t := v.(type) {
	case Doc:
		for key, val := range t {
			if key != "ref" {
				if err := InlineRefs(val, docURL, resolver, aliases); err != nil {
					return err
				}
				continue
			}
			name, ok := val.(string)
			if !ok {
				continue
			}
			text, err := fetchRef(name, docURL, resolver, aliases)
			if err != nil {
				return err
			}
			t[key] = text
		}
		return nil
	case []any:
		for _, item := range t {
			if err := InlineRefs(item, docURL, resolver, aliases); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func fetchRef(name, docURL string, resolver *resource.Resolver, aliases *resource.AliasMapper) (string, error) {
	aliased := aliases.Apply(name)
	refURL, found := resolver.Resolve(aliased, docURL)
	if !found {
		return "", dslerr.NewLogicWith(dslerr.CodeRefResolution,
			"Failed on ref - Unable to locate ref "+name,
			dslerr.WithFailedImport(name))
	}
	data, err := resolver.Fetch(refURL)
	if err != nil {
		return "", dslerr.NewLogicWith(dslerr.CodeRefResolution,
			"Failed on ref - Unable to open file "+name+" (searched for "+refURL+")",
			dslerr.WithFailedImport(refURL))
	}
	return string(data), nil
}
