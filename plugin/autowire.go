// Package plugin implements the Type & Plugin Autowirer (spec.md §4.8)
// and the Plugin Normalizer (spec.md §4.10), generalizing the teacher's
// plugin/resolver.go capability-matching logic from "does a loaded
// plugin satisfy this capability name" to "does exactly one declared
// type/plugin satisfy this autowiring request".
package plugin

import (
	"fmt"
	"strings"

	"github.com/opencm/cloudify-common-opencm/dslerr"
)

// AutowireType walks a type's descendant chain to find its unique
// concrete leaf (spec.md §4.8). descendants maps a type name to the
// names of types directly derived from it. A type with no descendants
// is already a leaf and is returned as-is; a type with exactly one
// descendant is replaced by walking further; a type with more than one
// descendant is ambiguous (code 103); revisiting a name already on the
// walked path is a cycle (code 100).
func AutowireType(declaredName string, descendants map[string][]string) (string, error) {
	path := []string{declaredName}
	current := declaredName

	for {
		children := descendants[current]
		if len(children) == 0 {
			return current, nil
		}
		if len(children) > 1 {
			return "", dslerr.NewLogicWith(dslerr.CodeAmbiguousAutowire,
				fmt.Sprintf("Ambiguous autowiring of type %s detected, more than one candidate - %v", path[0], children),
				dslerr.WithDescendants(children))
		}

		candidate := children[0]
		if contains(path, candidate) {
			trail := dslerr.CircularTrail(path)
			reversed := append(append([]string(nil), path...), path[0])
			reverse(reversed)
			return "", dslerr.NewLogicWith(dslerr.CodeCircularDependency,
				fmt.Sprintf("Failed parsing type %s, Circular dependency detected: %s", path[0], trail),
				dslerr.WithCircularDependency(reversed))
		}

		path = append(path, candidate)
		current = candidate
	}
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}

func reverse(list []string) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
}

// AutowirePlugin selects the unique normalized plugin whose "interface"
// field equals interfaceName (spec.md §4.8). plugins maps plugin name to
// its normalized properties (see Normalize). typeName is only used
// to phrase the error message, matching the original parser's
// _autowire_plugin. Zero matches raises code 11; more than one raises
// code 12.
func AutowirePlugin(plugins map[string]map[string]any, interfaceName, typeName string) (string, error) {
	var matches []string
	for name, props := range plugins {
		if iface, _ := props["interface"].(string); iface == interfaceName {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return "", dslerr.NewLogic(dslerr.CodeNoMatchingPlugin,
			"Failed to find a plugin which implements interface %s as implicitly declared for type %s", interfaceName, typeName)
	case 1:
		return matches[0], nil
	default:
		return "", dslerr.NewLogic(dslerr.CodeAmbiguousPlugin,
			"Ambiguous implicit declaration for interface %s implementation under type %s - Found multiple matching plugins: (%s)",
			interfaceName, typeName, strings.Join(matches, ","))
	}
}
