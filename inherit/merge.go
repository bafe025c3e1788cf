package inherit

import "github.com/opencm/cloudify-common-opencm/loader"

// RelationshipMerge implements the relationship-type merge rule (spec.md
// §4.7): a shallow key override where current wins over every field of
// the complete ancestor.
func RelationshipMerge(completeAncestor, current loader.Doc) loader.Doc {
	merged, _ := loader.DeepCopy(completeAncestor).(loader.Doc)
	if merged == nil {
		merged = loader.Doc{}
	}
	for k, v := range current {
		merged[k] = v
	}
	return merged
}

// TypeMerge implements the node-type merge rule (spec.md §4.7):
// properties and workflows are dict-merged with current winning;
// policies are name-keyed list-merged (current replaces by name);
// interfaces are merged by interface-name identity, preserving the
// ancestor's order of first appearance.
func TypeMerge(completeAncestor, current loader.Doc) loader.Doc {
	merged := current

	merged["properties"] = mergeSubDicts(completeAncestor, merged, "properties")
	merged["workflows"] = mergeSubDicts(completeAncestor, merged, "workflows")
	merged["policies"] = mergeNamedList(completeAncestor, merged, "policies")

	ancestorInterfaces := getList(completeAncestor, "interfaces")
	currentInterfaces := getList(merged, "interfaces")
	mergedInterfaces := append([]any(nil), ancestorInterfaces...)
	for _, element := range currentInterfaces {
		mergedInterfaces = replaceOrAddInterface(mergedInterfaces, element)
	}
	merged["interfaces"] = mergedInterfaces

	return merged
}

func mergeSubDicts(overridden, overriding loader.Doc, key string) loader.Doc {
	result := loader.Doc{}
	for k, v := range getDict(overridden, key) {
		result[k] = v
	}
	for k, v := range getDict(overriding, key) {
		result[k] = v
	}
	return result
}

// mergeNamedList merges two lists of {name, ...} mappings keyed by their
// "name" field, overriding entries winning, while preserving the
// overridden list's order of first appearance followed by any new
// overriding entries.
func mergeNamedList(overridden, overriding loader.Doc, key string) []any {
	var order []string
	byName := make(map[string]any)

	for _, entry := range getList(overridden, key) {
		name := entryName(entry)
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = entry
	}
	for _, entry := range getList(overriding, key) {
		name := entryName(entry)
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = entry
	}

	out := make([]any, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

func entryName(entry any) string {
	if m, ok := entry.(loader.Doc); ok {
		if name, ok := m["name"].(string); ok {
			return name
		}
	}
	return ""
}

func getDict(doc loader.Doc, key string) loader.Doc {
	if doc == nil {
		return nil
	}
	if m, ok := doc[key].(loader.Doc); ok {
		return m
	}
	return nil
}

func getList(doc loader.Doc, key string) []any {
	if doc == nil {
		return nil
	}
	if l, ok := doc[key].([]any); ok {
		return l
	}
	return nil
}

// interfaceName returns an interface list element's identity: the
// element itself when it's a bare string, or its single mapping key when
// it's an explicit {interface: plugin} binding (spec.md §3 "Type").
func interfaceName(element any) string {
	switch e := element.(type) {
	case string:
		return e
	case loader.Doc:
		for k := range e {
			return k
		}
	}
	return ""
}

func replaceOrAddInterface(list []any, element any) []any {
	name := interfaceName(element)
	for i, existing := range list {
		if interfaceName(existing) == name {
			list[i] = element
			return list
		}
	}
	return append(list, element)
}
