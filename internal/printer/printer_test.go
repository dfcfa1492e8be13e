package printer

import (
	"encoding/json"
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/veltra-dev/compiler/internal/analyzer"
	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/handler"
	"github.com/veltra-dev/compiler/internal/parser"
	"github.com/veltra-dev/compiler/internal/test_utils"
	"github.com/veltra-dev/compiler/internal/transform"
)

func parseDoc(t *testing.T, source string) *ast.Root {
	t.Helper()
	h := handler.NewHandler(source, "test.svelte")
	result := parser.New(source, h).Parse()
	for _, err := range result.Errors {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return result.Root
}

func TestFieldOrder(t *testing.T) {
	root := parseDoc(t, `<div/>hello`)
	out := PrintRoot(root)

	// type leads, the span is flattened right after it
	assert.Assert(t, strings.HasPrefix(out, "{\n  \"type\": \"Root\""))
	typeIdx := strings.Index(out, `"type"`)
	startIdx := strings.Index(out, `"start"`)
	endIdx := strings.Index(out, `"end"`)
	fragIdx := strings.Index(out, `"fragment"`)
	assert.Assert(t, typeIdx < startIdx)
	assert.Assert(t, startIdx < endIdx)
	assert.Assert(t, endIdx < fragIdx)
}

func TestOutputIsValidJSON(t *testing.T) {
	source := `<script>let x = $state(0);</script>{x}<p class:active={x}>ok &amp; fine</p>`
	root := parseDoc(t, source)
	out := PrintRoot(root)

	var decoded map[string]any
	assert.NilError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, decoded["type"], "Root")

	fragment, ok := decoded["fragment"].(map[string]any)
	assert.Assert(t, ok)
	assert.Equal(t, fragment["type"], "Fragment")
}

func TestBooleanAttributeSerializesAsTrue(t *testing.T) {
	root := parseDoc(t, `<input disabled/>`)
	out := PrintRoot(root)

	var decoded map[string]any
	assert.NilError(t, json.Unmarshal([]byte(out), &decoded))
	fragment := decoded["fragment"].(map[string]any)
	input := fragment["nodes"].([]any)[0].(map[string]any)
	attr := input["attributes"].([]any)[0].(map[string]any)
	assert.Equal(t, attr["type"], "NormalAttribute")
	assert.Equal(t, attr["value"], true)
}

func TestSnapshotDocuments(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "self closing and text",
			source: `<div/>hello`,
		},
		{
			name:   "if else chain",
			source: `{#if a}A{:else if b}B{:else}C{/if}`,
		},
		{
			name: "component with script and style",
			source: test_utils.Dedent(`
				<script>
					let count = $state(0);
				</script>
				<button on:click={() => count++}>{count}</button>
				<style>
					button { color: red; }
				</style>
			`),
		},
		{
			name:   "each with key",
			source: `{#each items as item (item.id)}<li>{item.name}</li>{/each}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseDoc(t, tt.source)
			test_utils.MakeSnapshot(&test_utils.SnapshotOptions{
				Testing:      t,
				TestCaseName: tt.name,
				Input:        tt.source,
				Output:       PrintRoot(root),
				Lang:         "json",
			})
		})
	}
}

func TestPrintTransformedProgram(t *testing.T) {
	source := `<script>let x = $state(0);</script>{x}`
	root := parseDoc(t, source)
	analysis := analyzer.Analyze(root)
	program := transform.New(source, analysis, transform.Options{Name: "App"}).ClientTransform(root)

	out := PrintProgram(program)
	var decoded map[string]any
	assert.NilError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, decoded["type"], "Program")
	if !strings.Contains(out, `"svelte/internal/client"`) {
		t.Fatalf("missing runtime import in output:\n%s", test_utils.DiffText(`"svelte/internal/client"`, out))
	}
}
