package schemas

import "testing"

func TestValidateDSL_Valid(t *testing.T) {
	doc := map[string]any{
		"blueprint": map[string]any{
			"name": "example",
			"topology": []any{
				map[string]any{"name": "node1", "type": "some.type"},
			},
		},
	}
	if err := ValidateDSL(doc); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}
}

func TestValidateDSL_MissingBlueprint(t *testing.T) {
	doc := map[string]any{"imports": []any{}}
	if err := ValidateDSL(doc); err == nil {
		t.Fatal("expected schema validation failure for missing blueprint section")
	}
}

func TestValidateDSL_EmptyTopology(t *testing.T) {
	doc := map[string]any{
		"blueprint": map[string]any{
			"name":     "example",
			"topology": []any{},
		},
	}
	if err := ValidateDSL(doc); err == nil {
		t.Fatal("expected schema validation failure for empty topology")
	}
}

func TestValidateImportsSection_Valid(t *testing.T) {
	doc := map[string]any{"imports": []any{"a.yaml", "b.yaml"}}
	if err := ValidateImportsSection(doc); err != nil {
		t.Fatalf("expected valid imports section, got %v", err)
	}
}

func TestValidateImportsSection_WrongType(t *testing.T) {
	doc := map[string]any{"imports": "not-a-list"}
	if err := ValidateImportsSection(doc); err == nil {
		t.Fatal("expected schema validation failure for non-array imports")
	}
}
