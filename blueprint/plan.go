// Package blueprint implements the Node Processor (spec.md §4.9),
// Relationship Instance Processor (§4.11), Workflow/Policy Value
// Processor (§4.12), Post-Processor (§4.13), Relationship Field
// Validator (§4.14), and the public parse entry points (§6) — the top
// of the compiler, generalizing the teacher's config.WorkflowConfig
// top-level struct to the full deployment plan this domain produces.
package blueprint

// Plan is the normalized deployment plan produced by a successful parse
// (spec.md §3 "Plan").
type Plan struct {
	Name            string                    `json:"name"`
	Nodes           []Node                    `json:"nodes"`
	Relationships   map[string]map[string]any `json:"relationships"`
	Workflows       map[string]any            `json:"workflows"`
	Policies        map[string]any            `json:"policies"`
	PoliciesEvents  map[string]any            `json:"policies_events"`
	Rules           map[string]any            `json:"rules"`
}

// Node is a fully processed topology entry (spec.md §3 "Processed
// node").
type Node struct {
	ID                string                    `json:"id"`
	DeclaredType      string                    `json:"declared_type"`
	Type              string                    `json:"type"`
	Properties        map[string]any            `json:"properties"`
	Workflows         map[string]any            `json:"workflows"`
	Policies          []any                     `json:"policies"`
	Interfaces        []any                     `json:"interfaces,omitempty"`
	Plugins           map[string]map[string]any `json:"plugins"`
	Operations        map[string]string         `json:"operations"`
	Relationships     []map[string]any          `json:"relationships,omitempty"`
	HostID            string                    `json:"host_id,omitempty"`
	PluginsToInstall  []map[string]any          `json:"plugins_to_install,omitempty"`
	Dependents        []string                  `json:"dependents,omitempty"`
	Instances         map[string]any            `json:"instances"`
}
