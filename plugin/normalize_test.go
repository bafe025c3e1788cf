package plugin

import (
	"testing"

	"github.com/opencm/cloudify-common-opencm/loader"
)

func TestNormalize_AgentPlugin(t *testing.T) {
	raw := loader.Doc{
		"derived_from": "cloudify.plugins.agent_plugin",
		"properties": loader.Doc{
			"interface": "cloudify.interfaces.lifecycle",
		},
	}
	got, err := Normalize(raw, "my_plugin")
	if err != nil {
		t.Fatal(err)
	}
	if got["name"] != "my_plugin" {
		t.Errorf("expected name=my_plugin, got %v", got["name"])
	}
	if got["agent_plugin"] != "true" {
		t.Errorf("expected agent_plugin=true, got %v", got["agent_plugin"])
	}
	if !IsAgentPlugin(got) {
		t.Error("expected IsAgentPlugin to report true")
	}
}

func TestNormalize_RemotePlugin(t *testing.T) {
	raw := loader.Doc{
		"derived_from": "cloudify.plugins.remote_plugin",
		"properties":   loader.Doc{"interface": "some.interface"},
	}
	got, err := Normalize(raw, "remote_plugin")
	if err != nil {
		t.Fatal(err)
	}
	if got["agent_plugin"] != "false" {
		t.Errorf("expected agent_plugin=false, got %v", got["agent_plugin"])
	}
	if IsAgentPlugin(got) {
		t.Error("expected IsAgentPlugin to report false")
	}
}

func TestNormalize_IllegalDerivedFrom(t *testing.T) {
	raw := loader.Doc{"derived_from": "cloudify.plugins.something_else"}
	_, err := Normalize(raw, "bad_plugin")
	if err == nil {
		t.Fatal("expected illegal derived_from error")
	}
}

func TestInstallExcludeList(t *testing.T) {
	if !InstallExcludeList["cloudify.plugins.plugin_installer"] {
		t.Error("expected plugin_installer to be excluded")
	}
	if !InstallExcludeList["cloudify.plugins.kv_store"] {
		t.Error("expected kv_store to be excluded")
	}
}
