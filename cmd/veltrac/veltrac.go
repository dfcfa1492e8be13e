// veltrac parses a component file and writes the pretty-printed JSON of
// its root to output.json. With -client it additionally writes the
// transformed client program. Exit code 0 on success, 1 with a message
// on parse failure.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/iancoleman/strcase"

	"github.com/veltra-dev/compiler/internal/analyzer"
	"github.com/veltra-dev/compiler/internal/handler"
	"github.com/veltra-dev/compiler/internal/parseerr"
	"github.com/veltra-dev/compiler/internal/parser"
	"github.com/veltra-dev/compiler/internal/printer"
	"github.com/veltra-dev/compiler/internal/transform"
)

// diagnostic is the machine-readable shape a failed parse reports on
// stderr alongside the rendered human messages.
type diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

func main() {
	output := flag.String("o", "output.json", "path for the root AST JSON")
	client := flag.String("client", "", "optional path for the transformed client program JSON")
	flag.Parse()

	input := "input.svelte"
	if flag.NArg() > 0 {
		input = flag.Arg(0)
	}

	source, err := os.ReadFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "veltrac: %v\n", err)
		os.Exit(1)
	}

	h := handler.NewHandler(string(source), input)
	result := parser.New(string(source), h).Parse()
	if len(result.Errors) > 0 {
		var diagnostics []diagnostic
		for _, parseErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "%s\n", h.Render(parseErr))
			if pe, ok := parseErr.(*parseerr.Error); ok {
				diagnostics = append(diagnostics, diagnostic{
					Code:    pe.Kind.String(),
					Message: pe.Error(),
					Start:   pe.Span.Start,
					End:     pe.Span.End,
				})
			}
		}
		if encoded, err := json.Marshal(diagnostics); err == nil {
			fmt.Fprintf(os.Stderr, "%s\n", encoded)
		}
		os.Exit(1)
	}

	// the analyzer assigns scope cells the printer does not serialize,
	// but the transform below depends on them
	analysis := analyzer.Analyze(result.Root)

	if err := os.WriteFile(*output, []byte(printer.PrintRoot(result.Root)), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "veltrac: %v\n", err)
		os.Exit(1)
	}

	if *client != "" {
		name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		program := transform.New(string(source), analysis, transform.Options{
			Name: strcase.ToCamel(name),
		}).ClientTransform(result.Root)
		if err := os.WriteFile(*client, []byte(printer.PrintProgram(program)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "veltrac: %v\n", err)
			os.Exit(1)
		}
	}
}
