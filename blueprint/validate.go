package blueprint

import "github.com/opencm/cloudify-common-opencm/dslerr"

// validateNoDuplicateNodes checks that every node in the topology
// declares a unique name (spec.md §3 "Key invariants", code 101).
func validateNoDuplicateNodes(topology []any) (map[string]bool, error) {
	names := map[string]bool{}
	for _, raw := range topology {
		node, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := node["name"].(string)
		if names[name] {
			return nil, dslerr.NewLogicWith(dslerr.CodeDuplicateNodeName,
				"Not all node names are unique, node name "+name+" appears more than once",
				dslerr.WithDuplicateNodeName(name))
		}
		names[name] = true
	}
	return names, nil
}
