package blueprint

import (
	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/inherit"
	"github.com/opencm/cloudify-common-opencm/loader"
)

// processRelationships completes every top-level relationship type by
// inheritance, validates its fields, strips its derived_from, sets its
// name field to the relationship's key, and re-processes its workflow
// value (spec.md §4.7, §4.14).
func processRelationships(combined loader.Doc) (map[string]map[string]any, error) {
	processed := map[string]map[string]any{}

	rawRelationships, _ := combined["relationships"].(loader.Doc)
	if rawRelationships == nil {
		return processed, nil
	}

	container := toContainer(rawRelationships)
	plugins, _ := combined["plugins"].(loader.Doc)

	for relName, relObj := range container {
		visited := []string{}
		complete, err := inherit.ExtractComplete(relObj, relName, container, inherit.RelationshipMerge, &visited, inherit.KindRelationship)
		if err != nil {
			return nil, err
		}

		if err := validateRelationshipFields(complete, plugins, relName); err != nil {
			return nil, err
		}

		out, _ := loader.DeepCopy(complete).(loader.Doc)
		out["name"] = relName
		delete(out, "derived_from")

		if wf, ok := out["workflow"]; ok {
			value, err := processRefOrInline(wf, "radial")
			if err != nil {
				return nil, err
			}
			out["workflow"] = value
		}

		processed[relName] = out
	}

	return processed, nil
}

// validateRelationshipFields checks the three constrained fields a
// relationship type (or instance) may declare (spec.md §4.14).
func validateRelationshipFields(rel loader.Doc, plugins loader.Doc, relName string) error {
	if pluginName, ok := rel["plugin"]; ok {
		name, _ := pluginName.(string)
		if plugins == nil {
			return dslerr.NewLogic(dslerr.CodeUndefinedRelPlugin,
				"Missing definition for plugin %s, which is declared for relationship %s", name, relName)
		}
		if _, defined := plugins[name]; !defined {
			return dslerr.NewLogic(dslerr.CodeUndefinedRelPlugin,
				"Missing definition for plugin %s, which is declared for relationship %s", name, relName)
		}
	}
	if bindAt, ok := rel["bind_at"]; ok {
		value, _ := bindAt.(string)
		if value != "pre_started" && value != "post_started" {
			return dslerr.NewLogic(dslerr.CodeIllegalBindAt,
				"Relationship %s has an illegal \"bind_at\" value %s; value must be either pre_started or post_started", relName, value)
		}
	}
	if runOnNode, ok := rel["run_on_node"]; ok {
		value, _ := runOnNode.(string)
		if value != "source" && value != "target" {
			return dslerr.NewLogic(dslerr.CodeIllegalRunOnNode,
				"Relationship %s has an illegal \"run_on_node\" value %s; value must be either source or target", relName, value)
		}
	}
	return nil
}

// toContainer normalizes a top-level section's mapping values, which
// loader.Doc already stores as map[string]any, into map[string]loader.Doc
// for the inheritance resolver's container parameter.
func toContainer(section loader.Doc) map[string]loader.Doc {
	out := make(map[string]loader.Doc, len(section))
	for k, v := range section {
		if m, ok := v.(loader.Doc); ok {
			out[k] = m
		}
	}
	return out
}

func relationshipInterfaceName(rel loader.Doc) (string, bool) {
	iface, ok := rel["interface"].(loader.Doc)
	if !ok {
		return "", false
	}
	name, ok := iface["name"].(string)
	return name, ok
}

// validateNoDuplicateInterfaces enforces global interface-name
// uniqueness across top-level interfaces, top-level relationships'
// interface fields, and every node relationship instance's interface
// field (spec.md §3 "Key invariants", code 22).
func validateNoDuplicateInterfaces(combined loader.Doc, topology []any) error {
	seen := map[string]bool{}

	topLevelInterfaces, _ := combined["interfaces"].(loader.Doc)
	for name := range topLevelInterfaces {
		seen[name] = true
	}

	topLevelRelationships, _ := combined["relationships"].(loader.Doc)
	for _, relObj := range topLevelRelationships {
		rel, ok := relObj.(loader.Doc)
		if !ok {
			continue
		}
		if name, ok := relationshipInterfaceName(rel); ok {
			if seen[name] {
				return dslerr.NewLogic(dslerr.CodeDuplicateInterface,
					"Illegal duplicate - interface %s is defined more than once", name)
			}
			seen[name] = true
		}
	}

	for _, nodeRaw := range topology {
		node, ok := nodeRaw.(loader.Doc)
		if !ok {
			continue
		}
		rels, _ := node["relationships"].([]any)
		for _, relRaw := range rels {
			rel, ok := relRaw.(loader.Doc)
			if !ok {
				continue
			}
			if name, ok := relationshipInterfaceName(rel); ok {
				if seen[name] {
					return dslerr.NewLogic(dslerr.CodeDuplicateInterface,
						"Illegal duplicate - interface %s is defined more than once", name)
				}
				seen[name] = true
			}
		}
	}

	return nil
}
