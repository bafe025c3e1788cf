package blueprint

import (
	"testing"

	"github.com/opencm/cloudify-common-opencm/loader"
)

func TestBuildTypesDescendants_IncludesLeaves(t *testing.T) {
	types := loader.Doc{
		"base": loader.Doc{},
		"mid":  loader.Doc{"derived_from": "base"},
		"leaf": loader.Doc{"derived_from": "mid"},
	}
	d := buildTypesDescendants(types)
	if len(d["base"]) != 1 || d["base"][0] != "mid" {
		t.Errorf("expected base -> [mid], got %v", d["base"])
	}
	if len(d["leaf"]) != 0 {
		t.Errorf("expected leaf to have no descendants, got %v", d["leaf"])
	}
	if _, ok := d["leaf"]; !ok {
		t.Error("expected leaf to have an entry even with no descendants")
	}
}

func TestBuildFamilyDescendantsSet_TransitiveMembership(t *testing.T) {
	types := loader.Doc{
		"cloudify.types.host": loader.Doc{},
		"centos_host":         loader.Doc{"derived_from": "cloudify.types.host"},
		"ubuntu_host":         loader.Doc{"derived_from": "centos_host"},
		"unrelated":           loader.Doc{},
	}
	family := buildFamilyDescendantsSet(types, "cloudify.types.host")
	for _, want := range []string{"cloudify.types.host", "centos_host", "ubuntu_host"} {
		if !family[want] {
			t.Errorf("expected %s in host family", want)
		}
	}
	if family["unrelated"] {
		t.Error("unrelated type should not be in host family")
	}
}

func TestPostProcess_HostIDAndPluginsToInstall(t *testing.T) {
	nodes := []Node{
		{
			ID:   "app.host",
			Type: "cloudify.types.host",
		},
		{
			ID:   "app.db",
			Type: "db",
			Plugins: map[string]map[string]any{
				"db_agent": {"name": "db_agent", "agent_plugin": "true"},
			},
			Relationships: []map[string]any{
				{"type": "cloudify.relationships.contained_in", "target_id": "app.host"},
			},
		},
	}
	types := loader.Doc{
		"cloudify.types.host": loader.Doc{},
		"db":                  loader.Doc{},
	}
	relationships := loader.Doc{
		"cloudify.relationships.contained_in": loader.Doc{},
	}
	plugins := loader.Doc{}

	if err := postProcess(nodes, types, relationships, plugins); err != nil {
		t.Fatal(err)
	}

	if nodes[1].HostID != "app.host" {
		t.Errorf("expected db node host_id to be app.host, got %q", nodes[1].HostID)
	}
	if len(nodes[0].PluginsToInstall) != 1 {
		t.Fatalf("expected one plugin to install on host, got %d", len(nodes[0].PluginsToInstall))
	}
	if len(nodes[0].Dependents) != 1 || nodes[0].Dependents[0] != "app.db" {
		t.Errorf("expected host to have db as dependent, got %v", nodes[0].Dependents)
	}
}

func TestPostProcess_AgentPluginWithoutHostFails(t *testing.T) {
	nodes := []Node{
		{
			ID:   "app.orphan",
			Type: "db",
			Plugins: map[string]map[string]any{
				"db_agent": {"name": "db_agent", "agent_plugin": "true"},
			},
		},
	}
	types := loader.Doc{"db": loader.Doc{}}
	err := postProcess(nodes, types, loader.Doc{}, loader.Doc{})
	if err == nil {
		t.Fatal("expected agent-plugin-without-host error")
	}
}
