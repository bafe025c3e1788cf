package loader

import (
	"fmt"

	"github.com/opencm/cloudify-common-opencm/dslerr"
)

// mergeableTopLevel lists the DSL top-level sections that may appear in
// more than one imported document and be merged by key, without
// overriding one import's keys with another's or the root's (spec.md
// §4.5). Anything else present in more than one document is a fatal
// conflict.
var mergeableTopLevel = map[string]bool{
	"interfaces":    true,
	"types":         true,
	"plugins":       true,
	"workflows":     true,
	"relationships": true,
	"policies":      true,
}

// MergeImports folds every document in graph into root, root-first,
// applying the no-override merge rules of spec.md §4.5. root is not
// mutated; the returned Doc is a fresh copy.
func MergeImports(root Doc, graph *ImportGraph) (Doc, error) {
	merged, _ := DeepCopy(root).(Doc)

	for _, url := range graph.Ordered {
		doc := graph.Docs[url]
		for key, val := range doc {
			if key == "imports" {
				continue
			}
			if !mergeableTopLevel[key] {
				if _, already := merged[key]; already {
					return nil, dslerr.NewLogicWith(dslerr.CodeNonMergeableField,
						fmt.Sprintf("Import failed: non-mergeable field '%s' is defined more than once (found while merging %s)", key, url))
				}
				merged[key] = DeepCopy(val)
				continue
			}

			existing, ok := merged[key]
			if !ok {
				merged[key] = DeepCopy(val)
				continue
			}
			existingMap, ok1 := existing.(Doc)
			incomingMap, ok2 := normalizeMap(val)
			if !ok1 || !ok2 {
				return nil, dslerr.NewLogicWith(dslerr.CodeNonMergeableField,
					fmt.Sprintf("Import failed: field '%s' is not a mapping and cannot be merged (found while merging %s)", key, url))
			}
			if key == "policies" {
				if err := mergePoliciesSection(existingMap, incomingMap, key, url); err != nil {
					return nil, err
				}
				continue
			}
			if err := mergeNoOverride(existingMap, incomingMap, key, url); err != nil {
				return nil, err
			}
		}
	}

	return merged, nil
}

// mergeNoOverride merges src into dst, one key at a time; any key that
// appears in both raises CodeImportMergeConflict with its full dotted
// path (spec.md §4.5).
func mergeNoOverride(dst, src Doc, path, url string) error {
	for k, v := range src {
		if _, exists := dst[k]; exists {
			return dslerr.NewLogicWith(dslerr.CodeImportMergeConflict,
				fmt.Sprintf("Import failed: %s.%s is defined more than once (found while merging %s)", path, k, url))
		}
		dst[k] = DeepCopy(v)
	}
	return nil
}

// mergePoliciesSection merges the "policies" section one level deeper
// than the other mergeable sections: its direct keys (e.g. "types",
// "rules") may legitimately appear in more than one document, and it is
// their own entries that are no-override merged (spec.md §4.5: "merged
// at one extra nesting level").
func mergePoliciesSection(dst, src Doc, path, url string) error {
	for subKey, subVal := range src {
		existingSub, ok := dst[subKey]
		if !ok {
			dst[subKey] = DeepCopy(subVal)
			continue
		}
		existingSubMap, ok1 := existingSub.(Doc)
		incomingSubMap, ok2 := normalizeMap(subVal)
		if !ok1 || !ok2 {
			return dslerr.NewLogicWith(dslerr.CodeNonMergeableField,
				fmt.Sprintf("Import failed: field '%s.%s' is not a mapping and cannot be merged (found while merging %s)", path, subKey, url))
		}
		if err := mergeNoOverride(existingSubMap, incomingSubMap, path+"."+subKey, url); err != nil {
			return err
		}
	}
	return nil
}
