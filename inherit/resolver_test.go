package inherit

import (
	"testing"

	"github.com/opencm/cloudify-common-opencm/loader"
)

func TestExtractComplete_NoAncestor(t *testing.T) {
	container := map[string]loader.Doc{
		"base": {"properties": loader.Doc{"a": "1"}},
	}
	visited := []string{}
	got, err := ExtractComplete(container["base"], "base", container, TypeMerge, &visited, KindType)
	if err != nil {
		t.Fatal(err)
	}
	props := got["properties"].(loader.Doc)
	if props["a"] != "1" {
		t.Errorf("expected property a=1, got %v", props["a"])
	}
}

func TestExtractComplete_SingleAncestor(t *testing.T) {
	container := map[string]loader.Doc{
		"base": {"properties": loader.Doc{"a": "1", "b": "1"}},
		"mid": {
			"derived_from": "base",
			"properties":   loader.Doc{"b": "2"},
		},
	}
	visited := []string{}
	got, err := ExtractComplete(container["mid"], "mid", container, TypeMerge, &visited, KindType)
	if err != nil {
		t.Fatal(err)
	}
	props := got["properties"].(loader.Doc)
	if props["a"] != "1" {
		t.Errorf("expected inherited a=1, got %v", props["a"])
	}
	if props["b"] != "2" {
		t.Errorf("expected overridden b=2, got %v", props["b"])
	}
}

func TestExtractComplete_MissingAncestor(t *testing.T) {
	container := map[string]loader.Doc{
		"mid": {"derived_from": "nonexistent"},
	}
	visited := []string{}
	_, err := ExtractComplete(container["mid"], "mid", container, TypeMerge, &visited, KindType)
	if err == nil {
		t.Fatal("expected missing-ancestor error")
	}
}

func TestExtractComplete_Cycle(t *testing.T) {
	container := map[string]loader.Doc{
		"a": {"derived_from": "b"},
		"b": {"derived_from": "a"},
	}
	visited := []string{}
	_, err := ExtractComplete(container["a"], "a", container, TypeMerge, &visited, KindType)
	if err == nil {
		t.Fatal("expected circular dependency error")
	}
}

func TestRelationshipMerge_CurrentWins(t *testing.T) {
	ancestor := loader.Doc{"plugin": "p1", "bind_at": "pre_started"}
	current := loader.Doc{"bind_at": "post_started"}
	got := RelationshipMerge(ancestor, current)
	if got["plugin"] != "p1" {
		t.Errorf("expected inherited plugin=p1, got %v", got["plugin"])
	}
	if got["bind_at"] != "post_started" {
		t.Errorf("expected overridden bind_at, got %v", got["bind_at"])
	}
}

func TestTypeMerge_PoliciesNamedListMerge(t *testing.T) {
	ancestor := loader.Doc{
		"policies": []any{
			loader.Doc{"name": "p1", "type": "a"},
			loader.Doc{"name": "p2", "type": "a"},
		},
	}
	current := loader.Doc{
		"policies": []any{
			loader.Doc{"name": "p1", "type": "b"},
		},
	}
	got := TypeMerge(ancestor, current)
	policies := got["policies"].([]any)
	if len(policies) != 2 {
		t.Fatalf("expected 2 policies, got %d", len(policies))
	}
	first := policies[0].(loader.Doc)
	if first["type"] != "b" {
		t.Errorf("expected p1 overridden to type b, got %v", first["type"])
	}
}

func TestTypeMerge_InterfacesPreserveOrder(t *testing.T) {
	ancestor := loader.Doc{
		"interfaces": []any{"iface_a", "iface_b"},
	}
	current := loader.Doc{
		"interfaces": []any{loader.Doc{"iface_a": "plugin_x"}, "iface_c"},
	}
	got := TypeMerge(ancestor, current)
	interfaces := got["interfaces"].([]any)
	if len(interfaces) != 3 {
		t.Fatalf("expected 3 interfaces, got %d: %v", len(interfaces), interfaces)
	}
	if m, ok := interfaces[0].(loader.Doc); !ok || m["iface_a"] != "plugin_x" {
		t.Errorf("expected iface_a replaced in place with explicit binding, got %v", interfaces[0])
	}
	if interfaces[1] != "iface_b" {
		t.Errorf("expected iface_b preserved at its ancestor position, got %v", interfaces[1])
	}
	if interfaces[2] != "iface_c" {
		t.Errorf("expected iface_c appended, got %v", interfaces[2])
	}
}
