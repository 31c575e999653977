package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/glint-lang/glint/internal/driver"
)

const prompt = ">> "

// runREPL buffers input lines until a blank line, then runs the
// accumulated source as one program — a blank line is the REPL's "run
// what I typed" signal, since statements can span multiple lines.
func runREPL() {
	start(os.Stdin)
}

func start(in io.Reader) {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	fmt.Print(prompt)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			source := buf.String()
			buf.Reset()
			if strings.TrimSpace(source) != "" {
				runOne(source)
			}
			fmt.Print(prompt)
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

func runOne(source string) {
	result, err := driver.Run(source)
	if err != nil {
		reportError(err)
		return
	}
	fmt.Println(result.ToDisplayString())
}
