package jsast

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/veltra-dev/compiler/internal/loc"
)

func TestParseProgramLowering(t *testing.T) {
	p := NewTreeSitterParser()
	prog, errs := p.ParseProgram("let x = $state(0);\nfunction f(a, b = 1) { return a; }", SourceJS)
	assert.Equal(t, len(errs), 0)
	assert.Equal(t, len(prog.Body), 2)

	decl, ok := prog.Body[0].(*VariableDeclaration)
	assert.Assert(t, ok)
	assert.Equal(t, decl.Kind, "let")
	assert.Equal(t, len(decl.Declarations), 1)
	assert.Equal(t, decl.Declarations[0].Id.(*Identifier).Name, "x")
	call, ok := decl.Declarations[0].Init.(*CallExpression)
	assert.Assert(t, ok)
	assert.Equal(t, call.Callee.(*Identifier).Name, "$state")

	fn, ok := prog.Body[1].(*FunctionDeclaration)
	assert.Assert(t, ok)
	assert.Equal(t, fn.Id.Name, "f")
	assert.Equal(t, len(fn.Params), 2)
	_, ok = fn.Params[1].(*AssignmentPattern)
	assert.Assert(t, ok)
}

func TestParseExpression(t *testing.T) {
	p := NewTreeSitterParser()
	expr, errs := p.ParseExpression("a.b + c(1)", SourceJS)
	assert.Equal(t, len(errs), 0)

	sum, ok := expr.(*BinaryExpression)
	assert.Assert(t, ok)
	assert.Equal(t, sum.Operator, "+")
	member, ok := sum.Left.(*MemberExpression)
	assert.Assert(t, ok)
	assert.Equal(t, member.Object.(*Identifier).Name, "a")
	_, ok = sum.Right.(*CallExpression)
	assert.Assert(t, ok)
}

func TestParseExpressionSpansStartAtZero(t *testing.T) {
	p := NewTreeSitterParser()
	expr, _ := p.ParseExpression("count", SourceJS)
	assert.Equal(t, expr.Span().Start, 0)
	assert.Equal(t, expr.Span().End, 5)
}

func TestSpanOffset(t *testing.T) {
	p := NewTreeSitterParser()
	prog, _ := p.ParseProgram("let x = 1;", SourceJS)

	SpanOffset(prog, 100)
	assert.Equal(t, prog.Span().Start, 100)
	decl := prog.Body[0].(*VariableDeclaration)
	assert.Assert(t, decl.Span().Start >= 100)
	id := decl.Declarations[0].Id.(*Identifier)
	assert.Equal(t, id.Span(), loc.Span{Start: 104, End: 105})
	assert.Assert(t, decl.Span().End <= 110)
}

func TestParsePattern(t *testing.T) {
	p := NewTreeSitterParser()

	pat, errs := p.ParsePattern("item", SourceJS)
	assert.Equal(t, len(errs), 0)
	id, ok := pat.(*Identifier)
	assert.Assert(t, ok)
	assert.Equal(t, id.Name, "item")
	assert.Equal(t, id.Span(), loc.Span{Start: 0, End: 4})

	pat, errs = p.ParsePattern("{a, b: c, ...rest}", SourceJS)
	assert.Equal(t, len(errs), 0)
	objPat, ok := pat.(*ObjectPattern)
	assert.Assert(t, ok)
	assert.Equal(t, len(objPat.Properties), 3)
}

func TestParseParams(t *testing.T) {
	p := NewTreeSitterParser()
	params, errs := p.ParseParams("a, [b, c], d = 1", SourceJS)
	assert.Equal(t, len(errs), 0)
	assert.Equal(t, len(params), 3)
	assert.Equal(t, params[0].(*Identifier).Name, "a")
	_, ok := params[1].(*ArrayPattern)
	assert.Assert(t, ok)
	_, ok = params[2].(*AssignmentPattern)
	assert.Assert(t, ok)
}

func TestBoundNames(t *testing.T) {
	p := NewTreeSitterParser()
	pat, _ := p.ParsePattern("{a, b: [c, ...d], e = 1}", SourceJS)

	var names []string
	BoundNames(pat, func(id *Identifier) { names = append(names, id.Name) })
	assert.DeepEqual(t, names, []string{"a", "c", "d", "e"})
}

func TestLeftmostIdentifier(t *testing.T) {
	p := NewTreeSitterParser()

	expr, _ := p.ParseExpression("a.b.c", SourceJS)
	id, bare := LeftmostIdentifier(expr)
	assert.Equal(t, id.Name, "a")
	assert.Assert(t, !bare)

	expr, _ = p.ParseExpression("x", SourceJS)
	id, bare = LeftmostIdentifier(expr)
	assert.Equal(t, id.Name, "x")
	assert.Assert(t, bare)
}
