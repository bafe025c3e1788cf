package blueprint

import (
	"github.com/google/uuid"

	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/loader"
	"github.com/opencm/cloudify-common-opencm/resource"
	"github.com/opencm/cloudify-common-opencm/schemas"
)

// Parse compiles blueprint YAML text with no known source location: refs
// and imports resolve only as http:/ftp:/file: URLs, as paths to existing
// local files, or via an explicit WithResourcesBaseURL, since there is no
// context URL to resolve relative imports against (spec.md §4.1, §6).
func Parse(text string, opts ...ParseOption) (*Plan, error) {
	return parse([]byte(text), "", opts)
}

// ParseFromPath compiles a blueprint YAML file at a local filesystem
// path, using that path as the import/ref context (spec.md §6).
func ParseFromPath(path string, opts ...ParseOption) (*Plan, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	r := cfg.resolver()
	data, err := r.Fetch(path)
	if err != nil {
		return nil, err
	}
	return parseWithResolver(data, path, r, cfg)
}

// ParseFromURL compiles a blueprint YAML document fetched from a URL,
// using that URL as the import/ref context (spec.md §6).
func ParseFromURL(url string, opts ...ParseOption) (*Plan, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	r := cfg.resolver()
	data, err := r.Fetch(url)
	if err != nil {
		return nil, err
	}
	return parseWithResolver(data, url, r, cfg)
}

func parse(data []byte, location string, opts []ParseOption) (*Plan, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return parseWithResolver(data, location, cfg.resolver(), cfg)
}

// parseWithResolver runs the full compiler pipeline (spec.md §4.1-§4.14)
// over an already-fetched root document: alias mapping, import discovery,
// ref inlining, import merge, schema validation, inheritance resolution,
// autowiring, node processing, and post-processing, producing a Plan. Every
// dslerr.Error returned carries a single trace id generated for this call.
func parseWithResolver(data []byte, location string, r *resource.Resolver, cfg *parseConfig) (plan *Plan, err error) {
	traceID := uuid.New()
	log := cfg.log()
	defer func() {
		if err != nil {
			err = dslerr.Stamp(err, traceID)
			log.Error("blueprint parse failed", "error", err, "trace_id", traceID)
		}
	}()

	aliases, err := resource.NewAliasMapper(r, cfg.aliasMappingURL, cfg.aliasMapping)
	if err != nil {
		return nil, err
	}

	root, err := loader.LoadYAML(data, "Failed to parse blueprint")
	if err != nil {
		return nil, err
	}
	if err := validateDocImports(root); err != nil {
		return nil, err
	}

	graph, err := loader.BuildImportGraph(root, location, r, aliases)
	if err != nil {
		return nil, err
	}
	for _, url := range graph.Ordered {
		log.Debug("fetched import", "url", url, "trace_id", traceID)
		if err := validateDocImports(graph.Docs[url]); err != nil {
			return nil, err
		}
	}

	if err := loader.InlineRefs(root, location, r, aliases); err != nil {
		return nil, err
	}
	for _, url := range graph.Ordered {
		if err := loader.InlineRefs(graph.Docs[url], url, r, aliases); err != nil {
			return nil, err
		}
	}

	combined, err := loader.MergeImports(root, graph)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateDSL(combined); err != nil {
		return nil, err
	}

	blueprintSection, _ := combined["blueprint"].(loader.Doc)
	appName, _ := blueprintSection["name"].(string)
	topology, _ := blueprintSection["topology"].([]any)

	nodeNames, err := validateNoDuplicateNodes(topology)
	if err != nil {
		return nil, err
	}
	if err := validateNoDuplicateInterfaces(combined, topology); err != nil {
		return nil, err
	}

	relationships, err := processRelationships(combined)
	if err != nil {
		return nil, err
	}

	policiesSection, _ := combined["policies"].(loader.Doc)
	topLevelPolicies, err := processPolicies(policiesSection)
	if err != nil {
		return nil, err
	}

	typesSection, _ := combined["types"].(loader.Doc)
	typesDescendants := buildTypesDescendants(typesSection)

	nodes := make([]Node, 0, len(topology))
	for _, raw := range topology {
		nodeDoc, ok := raw.(loader.Doc)
		if !ok {
			continue
		}
		node, err := processNode(nodeDoc, appName, combined, topLevelPolicies, relationships, nodeNames, typesDescendants)
		if err != nil {
			return nil, err
		}
		log.Debug("node processed", "node_id", node.ID, "type", node.Type, "trace_id", traceID)
		nodes = append(nodes, node)
	}

	plugins, _ := combined["plugins"].(loader.Doc)
	relationshipsSection, _ := combined["relationships"].(loader.Doc)
	if err := postProcess(nodes, typesSection, relationshipsSection, plugins); err != nil {
		return nil, err
	}

	workflowsSection, _ := combined["workflows"].(loader.Doc)
	workflows, err := processWorkflows(workflowsSection)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Name:           appName,
		Nodes:          nodes,
		Relationships:  relationships,
		Workflows:      workflows,
		Policies:       responsePoliciesSection(nodes),
		PoliciesEvents: topLevelPolicies.Events,
		Rules:          topLevelPolicies.Rules,
	}, nil
}

func validateDocImports(doc loader.Doc) error {
	if _, hasImports := doc["imports"]; !hasImports {
		return nil
	}
	return schemas.ValidateImportsSection(doc)
}
