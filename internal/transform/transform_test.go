package transform

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/veltra-dev/compiler/internal/analyzer"
	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/handler"
	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/parser"
)

func transformDoc(t *testing.T, source string) (*ast.Root, *jsast.Program) {
	t.Helper()
	h := handler.NewHandler(source, "test.svelte")
	result := parser.New(source, h).Parse()
	for _, err := range result.Errors {
		t.Fatalf("unexpected parse error: %v", err)
	}
	analysis := analyzer.Analyze(result.Root)
	program := New(source, analysis, Options{Name: "App"}).ClientTransform(result.Root)
	return result.Root, program
}

// isRuntimeCall reports whether expr is `$.<method>(...)`.
func isRuntimeCall(expr jsast.Expression, method string) (*jsast.CallExpression, bool) {
	call, ok := expr.(*jsast.CallExpression)
	if !ok {
		return nil, false
	}
	member, ok := call.Callee.(*jsast.MemberExpression)
	if !ok {
		return nil, false
	}
	obj, okObj := member.Object.(*jsast.Identifier)
	prop, okProp := member.Property.(*jsast.Identifier)
	if !okObj || !okProp || obj.Name != "$" || prop.Name != method {
		return nil, false
	}
	return call, true
}

func componentFunction(t *testing.T, program *jsast.Program) *jsast.FunctionDeclaration {
	t.Helper()
	for _, stmt := range program.Body {
		if export, ok := stmt.(*jsast.ExportDefaultDeclaration); ok {
			fn, ok := export.Declaration.(*jsast.FunctionDeclaration)
			assert.Assert(t, ok, "default export must be the component function")
			return fn
		}
	}
	t.Fatal("no default export in transformed program")
	return nil
}

func TestModuleShape(t *testing.T) {
	_, program := transformDoc(t, `<p/>`)

	// a bare disclose-version import leads, then the runtime namespace
	first, ok := program.Body[0].(*jsast.ImportDeclaration)
	assert.Assert(t, ok)
	assert.Equal(t, first.Source, "svelte/internal/disclose-version")
	assert.Equal(t, len(first.Specifiers), 0)

	second, ok := program.Body[1].(*jsast.ImportDeclaration)
	assert.Assert(t, ok)
	assert.Equal(t, second.Source, "svelte/internal/client")
	assert.Equal(t, second.Specifiers[0].Kind, jsast.ImportNamespace)
	assert.Equal(t, second.Specifiers[0].Local.Name, "$")

	fn := componentFunction(t, program)
	assert.Equal(t, fn.Id.Name, "App")
	assert.Equal(t, len(fn.Params), 1)
	assert.Equal(t, fn.Params[0].(*jsast.Identifier).Name, "$$anchor")
}

func TestStateDeclarationRewrite(t *testing.T) {
	_, program := transformDoc(t, `<script>let x = $state(0);</script>{x}`)
	fn := componentFunction(t, program)

	decl, ok := fn.Body.Body[0].(*jsast.VariableDeclaration)
	assert.Assert(t, ok)
	call, ok := decl.Declarations[0].Init.(*jsast.CallExpression)
	assert.Assert(t, ok)
	member, ok := call.Callee.(*jsast.MemberExpression)
	assert.Assert(t, ok)
	assert.Equal(t, member.Object.(*jsast.Identifier).Name, "$")
	assert.Equal(t, member.Property.(*jsast.Identifier).Name, "state")
	// the argument is left in place
	assert.Equal(t, call.Arguments[0].(*jsast.Literal).Raw, "0")
}

func TestSpaceTemplateLowering(t *testing.T) {
	_, program := transformDoc(t, `<script>let x = $state(0);</script>{x}`)
	fn := componentFunction(t, program)

	// after the instance statement: $.next(), var text = $.text(),
	// $.template_effect(() => { $.set_text(text, $.get(x)) }),
	// $.append($$anchor, text)
	stmts := fn.Body.Body[1:]
	assert.Equal(t, len(stmts), 4)

	next, ok := isRuntimeCall(stmts[0].(*jsast.ExpressionStatement).Expression, "next")
	assert.Assert(t, ok)
	assert.Equal(t, len(next.Arguments), 0)

	textDecl, ok := stmts[1].(*jsast.VariableDeclaration)
	assert.Assert(t, ok)
	assert.Equal(t, textDecl.Kind, "var")
	assert.Equal(t, textDecl.Declarations[0].Id.(*jsast.Identifier).Name, "text")
	_, ok = isRuntimeCall(textDecl.Declarations[0].Init, "text")
	assert.Assert(t, ok)

	effect, ok := isRuntimeCall(stmts[2].(*jsast.ExpressionStatement).Expression, "template_effect")
	assert.Assert(t, ok)
	closure := effect.Arguments[0].(*jsast.ArrowFunctionExpression)
	updates := closure.Body.(*jsast.BlockStatement).Body
	assert.Equal(t, len(updates), 1)
	setText, ok := isRuntimeCall(updates[0].(*jsast.ExpressionStatement).Expression, "set_text")
	assert.Assert(t, ok)
	assert.Equal(t, setText.Arguments[0].(*jsast.Identifier).Name, "text")
	get, ok := isRuntimeCall(setText.Arguments[1], "get")
	assert.Assert(t, ok)
	assert.Equal(t, get.Arguments[0].(*jsast.Identifier).Name, "x")

	appendCall, ok := isRuntimeCall(stmts[3].(*jsast.ExpressionStatement).Expression, "append")
	assert.Assert(t, ok)
	assert.Equal(t, appendCall.Arguments[0].(*jsast.Identifier).Name, "$$anchor")
	assert.Equal(t, appendCall.Arguments[1].(*jsast.Identifier).Name, "text")
}

func TestHandlerRewrite(t *testing.T) {
	root, _ := transformDoc(t,
		`<script>let x = $state(0);</script>{x}<button on:click={() => x++}>+</button>`)

	var button *ast.Element
	for _, node := range root.Fragment.Nodes {
		if el, ok := node.(*ast.Element); ok && el.Name == "button" {
			button = el
		}
	}
	assert.Assert(t, button != nil)

	handlerAttr := button.Attributes[0]
	assert.Equal(t, handlerAttr.Kind, ast.OnDirective)
	arrowFn := handlerAttr.Expression.(*jsast.ArrowFunctionExpression)
	set, ok := isRuntimeCall(arrowFn.Body.(jsast.Expression), "set")
	assert.Assert(t, ok, "x++ must become $.set(x, $.get(x) + 1)")
	assert.Equal(t, set.Arguments[0].(*jsast.Identifier).Name, "x")
	sum := set.Arguments[1].(*jsast.BinaryExpression)
	assert.Equal(t, sum.Operator, "+")
	get, ok := isRuntimeCall(sum.Left, "get")
	assert.Assert(t, ok)
	assert.Equal(t, get.Arguments[0].(*jsast.Identifier).Name, "x")
	assert.Equal(t, sum.Right.(*jsast.Literal).Raw, "1")
}

func TestAssignmentRewrite(t *testing.T) {
	_, program := transformDoc(t, `<script>let x = $state(0); x = 5;</script>`)
	fn := componentFunction(t, program)

	set, ok := isRuntimeCall(fn.Body.Body[1].(*jsast.ExpressionStatement).Expression, "set")
	assert.Assert(t, ok)
	assert.Equal(t, set.Arguments[0].(*jsast.Identifier).Name, "x")
	assert.Equal(t, set.Arguments[1].(*jsast.Literal).Raw, "5")
}

func TestStateReadsAreWrapped(t *testing.T) {
	_, program := transformDoc(t, `<script>let x = $state(1); let y = x + 1;</script>`)
	fn := componentFunction(t, program)

	yDecl := fn.Body.Body[1].(*jsast.VariableDeclaration)
	sum := yDecl.Declarations[0].Init.(*jsast.BinaryExpression)
	get, ok := isRuntimeCall(sum.Left, "get")
	assert.Assert(t, ok, "a bare read of state must become $.get(x)")
	assert.Equal(t, get.Arguments[0].(*jsast.Identifier).Name, "x")
}

func TestSingleElementLowering(t *testing.T) {
	_, program := transformDoc(t, `<div>hello</div>`)
	fn := componentFunction(t, program)

	// a template function is hoisted to module level
	var hoistedTemplate *jsast.VariableDeclaration
	for _, stmt := range program.Body {
		if decl, ok := stmt.(*jsast.VariableDeclaration); ok {
			if _, isTemplate := isRuntimeCall(decl.Declarations[0].Init, "template"); isTemplate {
				hoistedTemplate = decl
			}
		}
	}
	assert.Assert(t, hoistedTemplate != nil, "expected a hoisted $.template(...) declaration")
	templateName := hoistedTemplate.Declarations[0].Id.(*jsast.Identifier).Name

	elementDecl, ok := fn.Body.Body[0].(*jsast.VariableDeclaration)
	assert.Assert(t, ok)
	call, ok := elementDecl.Declarations[0].Init.(*jsast.CallExpression)
	assert.Assert(t, ok)
	assert.Equal(t, call.Callee.(*jsast.Identifier).Name, templateName)

	last := fn.Body.Body[len(fn.Body.Body)-1]
	appendCall, ok := isRuntimeCall(last.(*jsast.ExpressionStatement).Expression, "append")
	assert.Assert(t, ok)
	assert.Equal(t, appendCall.Arguments[0].(*jsast.Identifier).Name, "$$anchor")
}

func TestEmptyStatementCleanup(t *testing.T) {
	_, program := transformDoc(t, `<script>let a = 1;;</script>`)
	fn := componentFunction(t, program)
	for _, stmt := range fn.Body.Body {
		_, empty := stmt.(*jsast.EmptyStatement)
		assert.Assert(t, !empty, "empty statements must be dropped")
	}
}

func TestCleanNodesWhitespace(t *testing.T) {
	source := `<div>  hello   world  </div>`
	h := handler.NewHandler(source, "test.svelte")
	result := parser.New(source, h).Parse()
	assert.Equal(t, len(result.Errors), 0)
	analysis := analyzer.Analyze(result.Root)
	tr := New(source, analysis, Options{})

	div := result.Root.Fragment.Nodes[0].(*ast.Element)
	clean := tr.cleanNodes(div.Fragment.Nodes, fragmentParent{kind: "element", name: "div"})
	assert.Equal(t, len(clean.trimmed), 1)
	// only the trailing run is stripped; leading and interior whitespace
	// survive untouched
	assert.Equal(t, clean.trimmed[0].(*ast.Text).Data, "  hello   world")
}

func TestCleanNodesHoisting(t *testing.T) {
	source := `{#snippet s()}x{/snippet}<svelte:head><title>t</title></svelte:head><p/>`
	h := handler.NewHandler(source, "test.svelte")
	result := parser.New(source, h).Parse()
	assert.Equal(t, len(result.Errors), 0)
	analysis := analyzer.Analyze(result.Root)
	tr := New(source, analysis, Options{})

	clean := tr.cleanNodes(result.Root.Fragment.Nodes, fragmentParent{kind: "fragment"})
	assert.Equal(t, len(clean.hoisted), 2, "snippet and svelte:head hoist")
	assert.Equal(t, len(clean.trimmed), 1)
	assert.Assert(t, !clean.isTextFirst)
}

func TestCleanNodesStandalone(t *testing.T) {
	source := `{#snippet s()}x{/snippet}{@render s()}`
	h := handler.NewHandler(source, "test.svelte")
	result := parser.New(source, h).Parse()
	assert.Equal(t, len(result.Errors), 0)
	analysis := analyzer.Analyze(result.Root)
	tr := New(source, analysis, Options{})

	clean := tr.cleanNodes(result.Root.Fragment.Nodes, fragmentParent{kind: "fragment"})
	assert.Assert(t, clean.isStandalone)
}
