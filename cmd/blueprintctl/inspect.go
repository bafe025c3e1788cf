package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/opencm/cloudify-common-opencm/blueprint"
)

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	resourcesBaseURL := fs.String("resources-base-url", "", "Fallback base URL for unresolved imports/refs")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: blueprintctl inspect [options] <blueprint.yaml>

Compile a blueprint and print its resolved plan as JSON.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("exactly one blueprint file is required")
	}

	var opts []blueprint.ParseOption
	if *resourcesBaseURL != "" {
		opts = append(opts, blueprint.WithResourcesBaseURL(*resourcesBaseURL))
	}

	plan, err := blueprint.ParseFromPath(fs.Arg(0), opts...)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
