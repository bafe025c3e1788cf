package plugin

import (
	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/loader"
)

const (
	agentPluginDerivedFrom  = "cloudify.plugins.agent_plugin"
	remotePluginDerivedFrom = "cloudify.plugins.remote_plugin"

	pluginInstallerPlugin = "cloudify.plugins.plugin_installer"
	kvStorePlugin         = "cloudify.plugins.kv_store"
)

// InstallExcludeList names the plugins excluded from a host's aggregated
// plugins_to_install set (spec.md §3 "Key invariants").
var InstallExcludeList = map[string]bool{
	pluginInstallerPlugin: true,
	kvStorePlugin:         true,
}

// Normalize turns a raw plugin declaration into the processed form
// installed on a node (spec.md §4.10): its "derived_from" must be one of
// the two recognized plugin base types (code 18); the result is a deep
// copy of "properties" augmented with "name" and the lowercase string
// rendering of the agent-flag boolean.
func Normalize(raw loader.Doc, pluginName string) (map[string]any, error) {
	derivedFrom, _ := raw["derived_from"].(string)
	if derivedFrom != agentPluginDerivedFrom && derivedFrom != remotePluginDerivedFrom {
		return nil, dslerr.NewLogic(dslerr.CodeIllegalPluginDerivedFrom,
			"plugin %s has an illegal \"derived_from\" value %s; value must be either %s or %s",
			pluginName, derivedFrom, agentPluginDerivedFrom, remotePluginDerivedFrom)
	}

	rawProps, _ := raw["properties"].(loader.Doc)
	processed, _ := loader.DeepCopy(rawProps).(loader.Doc)
	if processed == nil {
		processed = loader.Doc{}
	}
	processed["name"] = pluginName
	if derivedFrom == agentPluginDerivedFrom {
		processed["agent_plugin"] = "true"
	} else {
		processed["agent_plugin"] = "false"
	}
	return processed, nil
}

// IsAgentPlugin reports whether a normalized plugin map is an agent
// plugin, per its "agent_plugin" string flag.
func IsAgentPlugin(normalized map[string]any) bool {
	flag, _ := normalized["agent_plugin"].(string)
	return flag == "true"
}
