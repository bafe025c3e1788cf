package resource

import "gopkg.in/yaml.v3"

// AliasMapper is a flat name-to-name substitution table applied before
// every resolution (spec.md §4.2). Later-composed entries win: a
// URL-loaded mapping is composed first, then a caller-supplied inline
// mapping is layered on top (SPEC_FULL.md "Supplemented features" #6).
type AliasMapper struct {
	mapping map[string]string
}

// NewAliasMapper composes a mapper from an optional URL (fetched via r)
// and an optional inline mapping, the inline mapping applied last so it
// overrides same-keyed entries loaded from the URL.
func NewAliasMapper(r *Resolver, url string, inline map[string]string) (*AliasMapper, error) {
	mapping := make(map[string]string)

	if url != "" {
		data, err := r.Fetch(url)
		if err != nil {
			return nil, err
		}
		var loaded map[string]string
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, err
		}
		for k, v := range loaded {
			mapping[k] = v
		}
	}

	for k, v := range inline {
		mapping[k] = v
	}

	return &AliasMapper{mapping: mapping}, nil
}

// Apply returns the aliased name, or name unchanged if it has no alias.
func (m *AliasMapper) Apply(name string) string {
	if m == nil {
		return name
	}
	if aliased, ok := m.mapping[name]; ok {
		return aliased
	}
	return name
}
