// Package inherit implements the Inheritance Resolver (spec.md §4.7):
// flattening a type or relationship type against its derived_from
// ancestor chain, with cycle detection, generalizing the teacher's
// structural-merge utilities (config.DeepMergeConfigs) from "merge two
// whole configs" to "merge one entity against its single ancestor,
// recursively, under a caller-supplied per-field rule".
package inherit

import (
	"fmt"

	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/loader"
)

// MergeFunc combines a fully-resolved ancestor with the entity's own
// (not yet merged with any ancestor) declaration, current winning on
// conflicts. See RelationshipMerge and TypeMerge.
type MergeFunc func(completeAncestor, current loader.Doc) loader.Doc

// Kind names the entity category, used only to phrase error messages the
// way the original parser distinguishes "type" from "relationship".
type Kind string

const (
	KindType         Kind = "type"
	KindRelationship Kind = "relationship"
)

// ExtractComplete recursively flattens obj (registered under name in
// container) against its derived_from ancestor, applying mergeFn at each
// level (spec.md §4.7). visited accumulates the walked chain across
// recursive calls so a revisit is detected; pass a pointer to a slice
// seeded with nil (or partial state, for node-level re-resolution) on
// each independent call site.
func ExtractComplete(obj loader.Doc, name string, container map[string]loader.Doc, mergeFn MergeFunc, visited *[]string, kind Kind) (loader.Doc, error) {
	for _, v := range *visited {
		if v == name {
			*visited = append(*visited, name)
			trail := dslerr.CircularTrail(*visited)
			return nil, dslerr.NewLogicWith(dslerr.CodeCircularDependency,
				fmt.Sprintf("Failed parsing %s %s, Circular dependency detected: %s", kind, name, trail),
				dslerr.WithCircularDependency(append([]string(nil), *visited...)))
		}
	}
	*visited = append(*visited, name)

	current, _ := loader.DeepCopy(obj).(loader.Doc)

	derivedFromRaw, hasAncestor := current["derived_from"]
	if !hasAncestor {
		return current, nil
	}
	superName, _ := derivedFromRaw.(string)
	superObj, ok := container[superName]
	if !ok {
		return nil, dslerr.NewLogic(dslerr.CodeMissingAncestor,
			"Missing definition for %s %s which is declared as derived by %s %s", kind, superName, kind, name)
	}

	completeSuper, err := ExtractComplete(superObj, superName, container, mergeFn, visited, kind)
	if err != nil {
		return nil, err
	}
	return mergeFn(completeSuper, current), nil
}
