// Package schemas provides JSON Schema definitions and validation for
// blueprint DSL documents. Schemas are authored as Go structs mirroring
// the JSON Schema shape (the way the teacher's schema.Schema models a
// workflow config document), marshaled to JSON, and compiled once via
// github.com/santhosh-tekuri/jsonschema/v6.
package schemas

// Schema represents a JSON Schema document, covering the subset of
// keywords the two fixed blueprint schemas need.
type Schema struct {
	Schema      string             `json:"$schema,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	AdditionalP *bool              `json:"additionalProperties,omitempty"`
	AnyOf       []*Schema          `json:"anyOf,omitempty"`
	MinItems    *int               `json:"minItems,omitempty"`
	PatternProp map[string]*Schema `json:"patternProperties,omitempty"`
}

// nodeDeclarationSchema describes a single topology entry (spec.md §3
// "Node declaration").
func nodeDeclarationSchema() *Schema {
	return &Schema{
		Type:     "object",
		Required: []string{"name", "type"},
		Properties: map[string]*Schema{
			"name":          {Type: "string"},
			"type":          {Type: "string"},
			"instances":     {Type: "object"},
			"relationships": {Type: "array"},
			"properties":    {Type: "object"},
			"workflows":     {Type: "object"},
			"interfaces":    {Type: "array"},
			"policies":      {Type: "array"},
		},
	}
}

// DSLSchema returns the full document schema, run once on the combined
// blueprint (spec.md §4.6, format error code 1).
func DSLSchema() *Schema {
	one := 1
	return &Schema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		Title:       "Blueprint DSL Document",
		Type:        "object",
		Required:    []string{"blueprint"},
		Properties: map[string]*Schema{
			"blueprint": {
				Type:     "object",
				Required: []string{"name", "topology"},
				Properties: map[string]*Schema{
					"name": {Type: "string"},
					"topology": {
						Type:     "array",
						MinItems: &one,
						Items:    nodeDeclarationSchema(),
					},
				},
			},
			"imports":       {Type: "array", Items: &Schema{Type: "string"}},
			"types":         {Type: "object"},
			"relationships": {Type: "object"},
			"plugins":       {Type: "object"},
			"interfaces":    {Type: "object"},
			"workflows":     {Type: "object"},
			"policies":      {Type: "object"},
		},
	}
}

// ImportsSchema validates a single document's "imports" section in
// isolation (spec.md §4.6, format error code 2).
func ImportsSchema() *Schema {
	return &Schema{
		Schema: "https://json-schema.org/draft/2020-12/schema",
		Title:  "Blueprint Imports Section",
		Type:   "object",
		Properties: map[string]*Schema{
			"imports": {
				Type:  "array",
				Items: &Schema{Type: "string"},
			},
		},
	}
}
