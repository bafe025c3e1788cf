package blueprint

import (
	"testing"

	"github.com/opencm/cloudify-common-opencm/loader"
)

func TestProcessRelationships_Inherited(t *testing.T) {
	combined := loader.Doc{
		"relationships": loader.Doc{
			"base": loader.Doc{
				"bind_at": "pre_started",
			},
			"child": loader.Doc{
				"derived_from": "base",
				"run_on_node":  "target",
			},
		},
	}

	processed, err := processRelationships(combined)
	if err != nil {
		t.Fatal(err)
	}
	child, ok := processed["child"]
	if !ok {
		t.Fatal("expected child relationship in output")
	}
	if child["bind_at"] != "pre_started" {
		t.Errorf("expected inherited bind_at, got %v", child["bind_at"])
	}
	if _, ok := child["derived_from"]; ok {
		t.Error("derived_from should be stripped from processed relationship")
	}
	if child["name"] != "child" {
		t.Errorf("expected name to be set to child, got %v", child["name"])
	}
}

func TestValidateRelationshipFields_IllegalBindAt(t *testing.T) {
	rel := loader.Doc{"bind_at": "sometime"}
	if err := validateRelationshipFields(rel, nil, "rel1"); err == nil {
		t.Fatal("expected illegal bind_at error")
	}
}

func TestValidateRelationshipFields_IllegalRunOnNode(t *testing.T) {
	rel := loader.Doc{"run_on_node": "sideways"}
	if err := validateRelationshipFields(rel, nil, "rel1"); err == nil {
		t.Fatal("expected illegal run_on_node error")
	}
}

func TestValidateRelationshipFields_UndefinedPlugin(t *testing.T) {
	rel := loader.Doc{"plugin": "missing_plugin"}
	if err := validateRelationshipFields(rel, loader.Doc{}, "rel1"); err == nil {
		t.Fatal("expected undefined plugin error")
	}
}
