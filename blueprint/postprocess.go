package blueprint

import (
	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/loader"
	"github.com/opencm/cloudify-common-opencm/plugin"
)

const (
	hostType           = "cloudify.types.host"
	containedInRelType = "cloudify.relationships.contained_in"
)

// buildTypesDescendants indexes every declared type by its direct
// children, including types with no children (an empty, not absent,
// entry), mirroring the original parser's dict comprehension (spec.md
// §4.8 "descendants").
func buildTypesDescendants(types loader.Doc) map[string][]string {
	descendants := make(map[string][]string, len(types))
	for name := range types {
		descendants[name] = nil
	}
	for name, raw := range types {
		doc, ok := raw.(loader.Doc)
		if !ok {
			continue
		}
		parent, ok := doc["derived_from"].(string)
		if !ok {
			continue
		}
		descendants[parent] = append(descendants[parent], name)
		_ = name
	}
	return descendants
}

// buildFamilyDescendantsSet collects every type name transitively
// derived from root (spec.md §4.13 step 3).
func buildFamilyDescendantsSet(types loader.Doc, root string) map[string]bool {
	container := toContainer(types)
	family := map[string]bool{}
	for name := range container {
		if isDerivedFrom(name, container, root) {
			family[name] = true
		}
	}
	return family
}

func isDerivedFrom(name string, container map[string]loader.Doc, root string) bool {
	visited := map[string]bool{}
	for {
		if name == root {
			return true
		}
		if visited[name] {
			return false
		}
		visited[name] = true
		doc, ok := container[name]
		if !ok {
			return false
		}
		parent, ok := doc["derived_from"].(string)
		if !ok {
			return false
		}
		name = parent
	}
}

// postProcess implements the cross-node Post-Processor (spec.md §4.13):
// plugin placement for run_on_node-qualified relationships, dependents
// tracking, host_id derivation, and plugins_to_install aggregation.
func postProcess(nodes []Node, types, relationships, plugins loader.Doc) error {
	byID := make(map[string]*Node, len(nodes))
	for i := range nodes {
		byID[nodes[i].ID] = &nodes[i]
	}

	for i := range nodes {
		node := &nodes[i]
		for _, rel := range node.Relationships {
			if pluginName, ok := rel["plugin"].(string); ok {
				target := node
				if runOnNode, _ := rel["run_on_node"].(string); runOnNode == "target" {
					targetID, _ := rel["target_id"].(string)
					target = byID[targetID]
				}
				rawPlugin, _ := plugins[pluginName].(loader.Doc)
				normalized, err := plugin.Normalize(rawPlugin, pluginName)
				if err != nil {
					return err
				}
				if target.Plugins == nil {
					target.Plugins = map[string]map[string]any{}
				}
				target.Plugins[pluginName] = normalized
			}

			targetID, _ := rel["target_id"].(string)
			if target, ok := byID[targetID]; ok {
				addDependent(target, node.ID)
			}
		}
	}

	hostTypes := buildFamilyDescendantsSet(types, hostType)
	containedInTypes := buildFamilyDescendantsSet(relationships, containedInRelType)

	for i := range nodes {
		hostID := extractNodeHostID(&nodes[i], byID, hostTypes, containedInTypes)
		if hostID != "" {
			nodes[i].HostID = hostID
		}
	}

	for i := range nodes {
		node := &nodes[i]
		if !hostTypes[node.Type] {
			continue
		}
		installed := map[string]map[string]any{}
		for _, other := range nodes {
			if other.HostID != node.ID {
				continue
			}
			for name, obj := range other.Plugins {
				if plugin.IsAgentPlugin(obj) && !plugin.InstallExcludeList[name] {
					installed[name] = obj
				}
			}
		}
		list := make([]map[string]any, 0, len(installed))
		for _, obj := range installed {
			list = append(list, obj)
		}
		node.PluginsToInstall = list
	}

	return validateAgentPluginsOnHostNodes(nodes)
}

func addDependent(node *Node, dependentID string) {
	for _, existing := range node.Dependents {
		if existing == dependentID {
			return
		}
	}
	node.Dependents = append(node.Dependents, dependentID)
}

func extractNodeHostID(node *Node, byID map[string]*Node, hostTypes, containedInTypes map[string]bool) string {
	if hostTypes[node.Type] {
		return node.ID
	}
	for _, rel := range node.Relationships {
		relType, _ := rel["type"].(string)
		if containedInTypes[relType] {
			targetID, _ := rel["target_id"].(string)
			target, ok := byID[targetID]
			if !ok {
				return ""
			}
			return extractNodeHostID(target, byID, hostTypes, containedInTypes)
		}
	}
	return ""
}

func validateAgentPluginsOnHostNodes(nodes []Node) error {
	for _, node := range nodes {
		if node.HostID != "" {
			continue
		}
		for _, obj := range node.Plugins {
			if plugin.IsAgentPlugin(obj) {
				name, _ := obj["name"].(string)
				return dslerr.NewLogic(dslerr.CodeAgentPluginWithoutHost,
					"node %s has no relationship which makes it contained within a host and it has an agent plugin named %s, agent plugins must be installed on a host",
					node.ID, name)
			}
		}
	}
	return nil
}
