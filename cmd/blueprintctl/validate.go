package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencm/cloudify-common-opencm/blueprint"
)

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	dir := fs.String("dir", "", "Validate all .yaml/.yml files in a directory (recursive)")
	resourcesBaseURL := fs.String("resources-base-url", "", "Fallback base URL for unresolved imports/refs")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: blueprintctl validate [options] <blueprint.yaml> [blueprint2.yaml ...]

Compile one or more blueprint YAML files and report the first error in each.

Examples:
  blueprintctl validate blueprint.yaml
  blueprintctl validate examples/*.yaml
  blueprintctl validate --dir ./examples/

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	var files []string
	if *dir != "" {
		found, err := findYAMLFiles(*dir)
		if err != nil {
			return fmt.Errorf("failed to scan directory %s: %w", *dir, err)
		}
		files = append(files, found...)
	}
	files = append(files, fs.Args()...)

	if len(files) == 0 {
		fs.Usage()
		return fmt.Errorf("at least one blueprint file or --dir is required")
	}

	var opts []blueprint.ParseOption
	if *resourcesBaseURL != "" {
		opts = append(opts, blueprint.WithResourcesBaseURL(*resourcesBaseURL))
	}

	var (
		passed int
		failed int
		errs   []string
	)

	for _, f := range files {
		plan, err := blueprint.ParseFromPath(f, opts...)
		if err != nil {
			failed++
			errs = append(errs, fmt.Sprintf("  FAIL %s\n       %s", f, indentError(err)))
			continue
		}
		passed++
		fmt.Printf("  PASS %s (%d nodes, %d relationships)\n", f, len(plan.Nodes), len(plan.Relationships))
	}

	total := passed + failed
	if total == 1 && failed == 1 {
		fmt.Println(errs[0])
	}
	if total > 1 {
		fmt.Printf("\n--- Validation Summary ---\n")
		fmt.Printf("  %d/%d blueprints passed\n", passed, total)
		if failed > 0 {
			fmt.Printf("  %d/%d blueprints failed:\n", failed, total)
			for _, e := range errs {
				fmt.Println(e)
			}
		}
		fmt.Println()
	}

	if failed > 0 {
		return fmt.Errorf("%d blueprint(s) failed validation", failed)
	}
	return nil
}

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"vendor":       true,
}

func findYAMLFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func indentError(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "\n       ")
}
