package blueprint

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const simpleBlueprint = `
blueprint:
  name: test_app
  topology:
    - name: host
      type: cloudify.types.host
    - name: app
      type: webapp
      relationships:
        - type: cloudify.relationships.contained_in
          target: host

types:
  cloudify.types.host: {}
  webapp:
    interfaces:
      - cloudify.interfaces.lifecycle.start
    properties:
      port: 8080

relationships:
  cloudify.relationships.contained_in: {}

interfaces:
  cloudify.interfaces.lifecycle.start:
    operations:
      - start

plugins:
  webapp_plugin:
    derived_from: cloudify.plugins.agent_plugin
    properties:
      interface: cloudify.interfaces.lifecycle.start

workflows:
  install:
    radial: install radial script

policies:
  types:
    cpu_policy:
      message: cpu threshold crossed
      policy:
        radial: eval cpu_policy
  rules:
    threshold:
      properties: {}
`

func TestParse_EndToEnd(t *testing.T) {
	plan, err := Parse(simpleBlueprint)
	require.NoError(t, err)
	require.Equal(t, "test_app", plan.Name)
	require.Len(t, plan.Nodes, 2)

	byID := map[string]Node{}
	for _, n := range plan.Nodes {
		byID[n.ID] = n
	}

	host, ok := byID["test_app.host"]
	require.True(t, ok)
	require.Equal(t, "cloudify.types.host", host.Type)
	require.Equal(t, "test_app.host", host.HostID)

	app, ok := byID["test_app.app"]
	require.True(t, ok)
	require.Equal(t, "webapp", app.Type)
	require.Equal(t, "test_app.host", app.HostID)
	require.Equal(t, 8080, app.Properties["port"])
	require.Contains(t, app.Properties, "cloudify_runtime")
	require.Equal(t, "webapp_plugin", app.Operations["start"])
	require.Equal(t, "webapp_plugin", app.Operations["cloudify.interfaces.lifecycle.start.start"])

	require.Len(t, app.Relationships, 1)
	rel := app.Relationships[0]
	require.Equal(t, "test_app.host", rel["target_id"])
	require.Equal(t, "reachable", rel["state"])

	require.Contains(t, host.PluginsToInstall, map[string]any{
		"interface":    "cloudify.interfaces.lifecycle.start",
		"name":         "webapp_plugin",
		"agent_plugin": "true",
	})

	require.Equal(t, "install radial script", plan.Workflows["install"])
	require.Contains(t, plan.PoliciesEvents, "cpu_policy")
	require.Contains(t, plan.Rules, "threshold")
}

func TestParse_DuplicateNodeName(t *testing.T) {
	text := `
blueprint:
  name: app
  topology:
    - name: a
      type: t
    - name: a
      type: t
types:
  t: {}
`
	_, err := Parse(text)
	require.Error(t, err)
}

func TestParse_UnknownNodeType(t *testing.T) {
	text := `
blueprint:
  name: app
  topology:
    - name: a
      type: missing
types:
  t: {}
`
	_, err := Parse(text)
	require.Error(t, err)
}

func TestParse_AgentPluginWithoutHost(t *testing.T) {
	text := `
blueprint:
  name: app
  topology:
    - name: a
      type: webapp

types:
  webapp:
    interfaces:
      - cloudify.interfaces.lifecycle.start

interfaces:
  cloudify.interfaces.lifecycle.start:
    operations:
      - start

plugins:
  webapp_plugin:
    derived_from: cloudify.plugins.agent_plugin
    properties:
      interface: cloudify.interfaces.lifecycle.start
`
	_, err := Parse(text)
	require.Error(t, err)
}
