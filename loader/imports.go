package loader

import (
	"fmt"

	"github.com/opencm/cloudify-common-opencm/dslerr"
	"github.com/opencm/cloudify-common-opencm/resource"
)

// ImportGraph is the transitive closure of a root document's imports,
// in DFS, root-first order, deduplicated by resolved URL (spec.md §4.3).
type ImportGraph struct {
	// Ordered lists resolved import URLs, root-first, with the root's
	// own URL excluded (per spec.md §9 "Open question": the root URL is
	// treated as already visited, so transitive self-imports are
	// skipped, but it is never merged through the imports path).
	Ordered []string
	// Docs holds every loaded document, keyed by its resolved URL,
	// populated eagerly during discovery so the later merge pass
	// observes a fixed snapshot (spec.md §4.3 "eagerly loaded").
	Docs map[string]Doc
}

// BuildImportGraph discovers every document transitively imported by
// root, starting at rootLocation (empty if the root has no known
// location, e.g. Parse from a raw string).
func BuildImportGraph(root Doc, rootLocation string, resolver *resource.Resolver, aliases *resource.AliasMapper) (*ImportGraph, error) {
	g := &ImportGraph{Docs: make(map[string]Doc)}
	seen := make(map[string]bool)

	var walk func(doc Doc, currentURL string) error
	walk = func(doc Doc, currentURL string) error {
		if currentURL != "" {
			g.Ordered = append(g.Ordered, currentURL)
			g.Docs[currentURL] = doc
			seen[currentURL] = true
		}

		rawImports, ok := doc["imports"]
		if !ok {
			return nil
		}
		importList, ok := rawImports.([]any)
		if !ok {
			return nil
		}

		for _, rawName := range importList {
			name, ok := rawName.(string)
			if !ok {
				continue
			}
			aliased := aliases.Apply(name)
			importURL, found := resolver.Resolve(aliased, currentURL)
			if !found {
				return dslerr.NewLogicWith(dslerr.CodeFailedImport,
					fmt.Sprintf("Failed on import - no suitable location found for import %s", name),
					dslerr.WithFailedImport(name))
			}
			if seen[importURL] {
				continue
			}

			data, err := resolver.Fetch(importURL)
			if err != nil {
				return dslerr.NewLogicWith(dslerr.CodeFailedImport,
					fmt.Sprintf("Failed on import - Unable to open import url %s; %s", importURL, err),
					dslerr.WithFailedImport(importURL))
			}
			importedDoc, err := LoadYAML(data, fmt.Sprintf("Failed to parse import %s (via %s)", name, importURL))
			if err != nil {
				return err
			}
			if err := walk(importedDoc, importURL); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, rootLocation); err != nil {
		return nil, err
	}

	if rootLocation != "" && len(g.Ordered) > 0 && g.Ordered[0] == rootLocation {
		g.Ordered = g.Ordered[1:]
	}
	delete(g.Docs, rootLocation)

	return g, nil
}
