// Package main is glint's command-line entry point: given a file argument
// it runs that file (or, with -listing, prints its lowered instruction
// vector instead of running it); given no file argument it starts an
// interactive REPL.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/glint-lang/glint/internal/driver"
)

func main() {
	listing := flag.Bool("listing", false, "print the lowered instruction listing instead of running")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		runREPL()
		return
	}

	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read file: %s", err)
		os.Exit(1)
	}

	if *listing {
		out, err := driver.Parse(string(source))
		if err != nil {
			reportError(err)
			os.Exit(1)
		}
		fmt.Print(out)
		return
	}

	result, err := driver.Run(string(source))
	if err != nil {
		reportError(err)
		os.Exit(1)
	}

	fmt.Println(result.ToDisplayString())
	color.Green("✓ %s ran successfully", path)
}

func reportError(err error) {
	color.Red("✗ %s", err)
}
