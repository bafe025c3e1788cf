package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opencm/cloudify-common-opencm/resource"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildImportGraph_LinearChain(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "leaf.yaml", "types:\n  leaf_type: {}\n")
	writeFile(t, dir, "mid.yaml", "imports:\n  - leaf.yaml\ntypes:\n  mid_type: {}\n")
	rootPath := writeFile(t, dir, "root.yaml", "imports:\n  - mid.yaml\n")

	root, err := LoadYAML([]byte("imports:\n  - mid.yaml\n"), "root")
	if err != nil {
		t.Fatal(err)
	}

	r := resource.NewResolver("")
	rootURL, _ := r.Resolve(rootPath, "")

	graph, err := BuildImportGraph(root, rootURL, r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(graph.Ordered) != 2 {
		t.Fatalf("expected 2 imports in chain, got %d: %v", len(graph.Ordered), graph.Ordered)
	}
	if _, ok := graph.Docs[rootURL]; ok {
		t.Error("root's own URL must not appear in Docs")
	}
}

func TestBuildImportGraph_SelfReimportDeduped(t *testing.T) {
	dir := t.TempDir()
	rootPath := filepath.Join(dir, "root.yaml")
	writeFile(t, dir, "root.yaml", "imports:\n  - child.yaml\n")
	writeFile(t, dir, "child.yaml", "imports:\n  - root.yaml\ntypes:\n  child_type: {}\n")

	r := resource.NewResolver("")
	rootURL, _ := r.Resolve(rootPath, "")
	root, err := LoadYAML([]byte("imports:\n  - child.yaml\n"), "root")
	if err != nil {
		t.Fatal(err)
	}

	graph, err := BuildImportGraph(root, rootURL, r, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(graph.Ordered) != 1 {
		t.Fatalf("expected child's self-reimport of root to be deduped, got %v", graph.Ordered)
	}
}

func TestBuildImportGraph_FailedImport(t *testing.T) {
	r := resource.NewResolver("")
	root := Doc{"imports": []any{"does-not-exist-anywhere.yaml"}}

	_, err := BuildImportGraph(root, "", r, nil)
	if err == nil {
		t.Fatal("expected an error for an unresolvable import")
	}
}
