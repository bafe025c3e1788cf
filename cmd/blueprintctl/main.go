package main

import (
	"fmt"
	"os"
)

var version = "dev"

var commands = map[string]func([]string) error{
	"validate": runValidate,
	"inspect":  runInspect,
}

func usage() {
	fmt.Fprintf(os.Stderr, `blueprintctl - Blueprint DSL compiler CLI (version %s)

Usage:
  blueprintctl <command> [options]

Commands:
  validate   Compile one or more blueprint YAML files and report errors
  inspect    Compile a blueprint and print its resolved plan as JSON

Run 'blueprintctl <command> -h' for command-specific help.
`, version)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		usage()
		os.Exit(0)
	}
	if cmd == "-v" || cmd == "--version" || cmd == "version" {
		fmt.Println(version)
		os.Exit(0)
	}

	fn, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err := fn(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
