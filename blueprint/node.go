package blueprint

import (
	"fmt"

	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/inherit"
	"github.com/opencm/cloudify-common-opencm/loader"
	"github.com/opencm/cloudify-common-opencm/plugin"
)

// stubWorkflow is the literal value installed on a relationship instance
// that never received a workflow, byte-for-byte as the original parser
// produces it.
const stubWorkflow = "define stub_workflow\n\t"

// processNode implements the Node Processor (spec.md §4.9): it resolves
// the node's declared type via autowiring and inheritance, attaches
// plugins/operations for every interface, processes relationship
// instances, and validates node-level policies.
func processNode(node loader.Doc, appName string, combined loader.Doc, topLevel *policiesAndRules,
	topLevelRelationships map[string]map[string]any, nodeNames map[string]bool, typesDescendants map[string][]string) (Node, error) {

	declaredType, _ := node["type"].(string)
	nodeName, _ := node["name"].(string)

	types, hasTypes := combined["types"].(loader.Doc)
	if !hasTypes {
		return Node{}, dslerr.NewLogic(dslerr.CodeUnknownNodeType,
			"Could not locate node type: %s; existing types: None", declaredType)
	}
	if _, declared := typesDescendants[declaredType]; !declared {
		return Node{}, dslerr.NewLogic(dslerr.CodeUnknownNodeType,
			"Could not locate node type: %s; existing types: %v", declaredType, typeNames(types))
	}

	resolvedType, err := plugin.AutowireType(declaredType, typesDescendants)
	if err != nil {
		return Node{}, err
	}

	typesContainer := toContainer(types)
	nodeType := typesContainer[resolvedType]

	visited := []string{}
	completeType, err := inherit.ExtractComplete(nodeType, resolvedType, typesContainer, inherit.TypeMerge, &visited, inherit.KindType)
	if err != nil {
		return Node{}, err
	}
	nodeCopy, _ := loader.DeepCopy(node).(loader.Doc)
	completeType = inherit.TypeMerge(completeType, nodeCopy)

	out := Node{
		ID:           appName + "." + nodeName,
		DeclaredType: declaredType,
		Type:         resolvedType,
	}
	out.Properties, _ = completeType["properties"].(loader.Doc)
	if out.Properties == nil {
		out.Properties = loader.Doc{}
	}
	out.Workflows, _ = completeType["workflows"].(loader.Doc)
	if out.Workflows == nil {
		out.Workflows = loader.Doc{}
	}
	out.Policies, _ = completeType["policies"].([]any)

	if err := attachPluginsAndOperations(&out, completeType, combined, resolvedType, nodeName); err != nil {
		return Node{}, err
	}

	plugins, _ := combined["plugins"].(loader.Doc)
	rels, err := processNodeRelationships(appName, node, nodeName, nodeNames, plugins, topLevelRelationships)
	if err != nil {
		return Node{}, err
	}
	out.Relationships = rels

	out.Properties["cloudify_runtime"] = loader.Doc{}

	workflows, err := processWorkflows(out.Workflows)
	if err != nil {
		return Node{}, err
	}
	out.Workflows = workflows

	if err := validateNodePolicies(out.Policies, nodeName, topLevel); err != nil {
		return Node{}, err
	}

	if instances, ok := node["instances"].(loader.Doc); ok {
		out.Instances = instances
	} else {
		out.Instances = loader.Doc{"deploy": 1}
	}

	return out, nil
}

func typeNames(types loader.Doc) []string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	return names
}

// attachPluginsAndOperations implements spec.md §4.9 steps 5-6: for each
// flattened interface element, bind a plugin (explicit or autowired),
// normalize it onto the node, and record its operations.
func attachPluginsAndOperations(out *Node, completeType loader.Doc, combined loader.Doc, resolvedType, nodeName string) error {
	interfaces, _ := completeType["interfaces"].([]any)
	if len(interfaces) == 0 {
		out.Plugins = map[string]map[string]any{}
		out.Operations = map[string]string{}
		return nil
	}

	pluginsSection, hasPlugins := combined["plugins"].(loader.Doc)
	if !hasPlugins {
		return dslerr.NewLogic(dslerr.CodeNoPluginsSection,
			"Must provide plugins section when providing interfaces section")
	}

	if err := validateNoDuplicateInterfacesForNode(interfaces, nodeName); err != nil {
		return err
	}

	interfaceDefs, _ := combined["interfaces"].(loader.Doc)
	plugins := map[string]map[string]any{}
	operationOwner := map[string]string{}
	operationAmbiguous := map[string]bool{}
	qualifiedOperations := map[string]string{}

	normalizedPlugins := map[string]map[string]any{}
	for name, raw := range pluginsSection {
		doc, ok := raw.(loader.Doc)
		if !ok {
			continue
		}
		normalized, err := plugin.Normalize(doc, name)
		if err != nil {
			return err
		}
		normalizedPlugins[name] = normalized
	}

	for _, element := range interfaces {
		var interfaceName, pluginName string

		if binding, ok := element.(loader.Doc); ok {
			for k, v := range binding {
				interfaceName = k
				pluginName, _ = v.(string)
			}
			if _, defined := pluginsSection[pluginName]; !defined {
				return dslerr.NewLogic(dslerr.CodeMissingExplicitPlugin,
					"Missing definition for plugin %s which is explicitly declared to implement interface %s for type %s",
					pluginName, interfaceName, resolvedType)
			}
			if normalizedPlugins[pluginName]["interface"] != interfaceName {
				return dslerr.NewLogic(dslerr.CodeExplicitPluginMismatch,
					"Illegal explicit plugin declaration for type %s: the plugin %s does not implement interface %s",
					resolvedType, pluginName, interfaceName)
			}
		} else {
			interfaceName, _ = element.(string)
			name, err := plugin.AutowirePlugin(normalizedPlugins, interfaceName, resolvedType)
			if err != nil {
				return err
			}
			pluginName = name
		}

		plugins[pluginName] = normalizedPlugins[pluginName]

		interfaceDef, ok := interfaceDefs[interfaceName].(loader.Doc)
		if !ok {
			return dslerr.NewLogic(dslerr.CodeMissingInterfaceDef, "Missing interface %s definition", interfaceName)
		}
		operations, _ := interfaceDef["operations"].([]any)
		for _, opRaw := range operations {
			op, _ := opRaw.(string)
			if _, exists := operationOwner[op]; exists {
				operationAmbiguous[op] = true
			} else {
				operationOwner[op] = pluginName
			}
			qualifiedOperations[interfaceName+"."+op] = pluginName
		}
	}

	finalOps := map[string]string{}
	for op, owner := range operationOwner {
		if operationAmbiguous[op] {
			continue
		}
		finalOps[op] = owner
	}
	for op, owner := range qualifiedOperations {
		finalOps[op] = owner
	}

	out.Plugins = plugins
	out.Operations = finalOps
	out.Interfaces = interfaces
	return nil
}

func validateNoDuplicateInterfacesForNode(interfaces []any, nodeName string) error {
	seen := map[string]bool{}
	for _, element := range interfaces {
		name := interfaceName(element)
		if seen[name] {
			return dslerr.NewLogicWith(dslerr.CodeDuplicateNodeInterface,
				fmt.Sprintf("Duplicate interface definition detected on node %s, interface %s has duplicate definition", nodeName, name),
				dslerr.WithDuplicateInterface(name, nodeName))
		}
		seen[name] = true
	}
	return nil
}

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

// processNodeRelationships implements the Relationship Instance
// Processor (spec.md §4.11).
func processNodeRelationships(appName string, node loader.Doc, nodeName string, nodeNames map[string]bool,
	plugins loader.Doc, topLevelRelationships map[string]map[string]any) ([]map[string]any, error) {

	rawRels, ok := node["relationships"].([]any)
	if !ok {
		return nil, nil
	}

	var out []map[string]any
	for _, relRaw := range rawRels {
		rel, ok := relRaw.(loader.Doc)
		if !ok {
			continue
		}
		relType, _ := rel["type"].(string)

		if err := validateRelationshipFields(rel, plugins, relType); err != nil {
			return nil, err
		}

		target, _ := rel["target"].(string)
		if !nodeNames[target] {
			return nil, dslerr.NewLogic(dslerr.CodeUndefinedTarget,
				"a relationship instance under node %s of type %s declares an undefined target node %s", nodeName, relType, target)
		}
		if target == nodeName {
			return nil, dslerr.NewLogic(dslerr.CodeSelfTarget,
				"a relationship instance under node %s of type %s illegally declares the source node as the target node", nodeName, relType)
		}

		topLevel, ok := topLevelRelationships[relType]
		if !ok {
			return nil, dslerr.NewLogic(dslerr.CodeUndefinedRelType,
				"a relationship instance under node %s declares an undefined relationship type %s", nodeName, relType)
		}

		complete := map[string]any{}
		for k, v := range topLevel {
			complete[k] = v
		}
		for k, v := range rel {
			complete[k] = v
		}
		delete(complete, "name")
		complete["target_id"] = appName + "." + target
		delete(complete, "target")

		if wf, ok := rel["workflow"]; ok && wf != nil {
			value, err := processRefOrInline(wf, "radial")
			if err != nil {
				return nil, err
			}
			complete["workflow"] = value
		} else if v, ok := complete["workflow"]; !ok || v == nil {
			complete["workflow"] = stubWorkflow
		}
		complete["state"] = "reachable"

		out = append(out, complete)
	}

	return out, nil
}
