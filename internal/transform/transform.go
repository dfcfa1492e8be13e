// Package transform rewrites the analyzed tree into a program suitable
// for the client-side runtime: reactive reads and writes become
// $.get/$.set calls, fragments lower to DOM-construction statements, and
// the whole component is synthesized into a single exported function.
package transform

import (
	"github.com/iancoleman/strcase"

	"github.com/veltra-dev/compiler/internal/analyzer"
	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/jsast"
)

// Options configure one transform.
type Options struct {
	// Name is the component name; the synthesized function and default
	// export use it. Empty means "App".
	Name string
}

// Transformer is constructed per document with the analysis the scope
// builder produced. It mutates expression nodes in place and collects an
// update closure per fragment (§4.J).
type Transformer struct {
	source   string
	analysis *analyzer.Analysis
	options  Options

	hoisted      []jsast.Statement
	update       []jsast.Statement
	currentScope analyzer.ScopeId
}

// New builds a Transformer over a parsed and analyzed document.
func New(source string, analysis *analyzer.Analysis, options Options) *Transformer {
	t := &Transformer{
		source:       source,
		analysis:     analysis,
		options:      options,
		currentScope: analysis.RootScope(),
	}
	t.hoisted = append(t.hoisted, importNamespace("$", "svelte/internal/client"))
	return t
}

// ClientTransform produces the transformed module: hoisted imports, then
// the component function as the default export. Instance body statements
// precede the lowered template body inside the function.
func (t *Transformer) ClientTransform(root *ast.Root) *jsast.Program {
	var instanceBody []jsast.Statement
	if root.Instance != nil && root.Instance.Program != nil {
		t.visitProgram(root.Instance.Program)
		instanceBody = root.Instance.Program.Body
		root.Instance.Program.Body = nil
	}

	t.rewriteFragment(root.Fragment)
	templateBody := t.visitFragment(root.Fragment)

	name := t.options.Name
	if name == "" {
		name = "App"
	}
	name = strcase.ToCamel(name)

	component := &jsast.FunctionDeclaration{
		Id:     identifier(name),
		Params: []jsast.Pattern{identifier("$$anchor")},
		Body:   &jsast.BlockStatement{Body: append(instanceBody, templateBody...)},
	}

	var body []jsast.Statement
	body = append(body, importBare("svelte/internal/disclose-version"))
	body = append(body, t.hoisted...)
	body = append(body, &jsast.ExportDefaultDeclaration{Declaration: component})

	return &jsast.Program{Body: body}
}

// findBinding resolves name via the scope chain from the current scope.
func (t *Transformer) findBinding(name string) (*analyzer.Binding, bool) {
	return t.analysis.FindBinding(t.currentScope, name)
}

func (t *Transformer) enterScope(id analyzer.ScopeId) analyzer.ScopeId {
	prev := t.currentScope
	if id >= 0 {
		t.currentScope = id
	}
	return prev
}

// takeUpdate empties the update buffer; it is drained whenever a
// template_effect closure is emitted (§5).
func (t *Transformer) takeUpdate() []jsast.Statement {
	update := t.update
	t.update = nil
	return update
}
