package parser

import (
	"strings"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

// parseTag handles `{expr}` and the typed `{@...}` tags. start is the
// offset of the `{`.
func (p *Parser) parseTag(start int) (ast.FragmentNode, error) {
	if p.eat('@') {
		switch {
		case p.eatStr("html"):
			return p.parseHtmlTag(start)
		case p.eatStr("debug"):
			return p.parseDebugTag(start)
		case p.eatStr("const"):
			return p.parseConstTag(start)
		case p.eatStr("render"):
			return p.parseRenderTag(start)
		}
		name := p.eatUntil(regexNotLowercaseAToZ)
		return nil, parseerr.New(parseerr.ExpectedTagType,
			loc.Span{Start: start, End: p.offset},
			"expected `html`, `debug`, `const` or `render`, found `%s`", name)
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	tag := &ast.ExpressionTag{Expression: expr}
	tag.SpanVal = loc.Span{Start: start, End: p.offset}
	return tag, nil
}

func (p *Parser) parseHtmlTag(start int) (*ast.HtmlTag, error) {
	if err := p.expectWhitespace(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	tag := &ast.HtmlTag{Expression: expr}
	tag.SpanVal = loc.Span{Start: start, End: p.offset}
	return tag, nil
}

// parseDebugTag accepts `{@debug}` (all bindings) or a comma-separated
// identifier list; anything else is invalid.
func (p *Parser) parseDebugTag(start int) (*ast.DebugTag, error) {
	tag := &ast.DebugTag{}
	p.skipWhitespace()
	if !p.matchCh('}') {
		text, textStart, err := p.readExpressionText()
		if err != nil {
			return nil, err
		}
		pos := 0
		for _, part := range strings.Split(text, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" || regexIdentifier.FindString(trimmed) != trimmed {
				return nil, parseerr.New(parseerr.DebugTagInvalidArguments,
					loc.Span{Start: textStart, End: textStart + len(text)},
					"{@debug ...} arguments must be identifiers, not arbitrary expressions")
			}
			idStart := textStart + pos + leadingSpace(part)
			id := &jsast.Identifier{Name: trimmed}
			jsast.SetSpan(id, loc.Span{Start: idStart, End: idStart + len(trimmed)})
			tag.Identifiers = append(tag.Identifiers, id)
			pos += len(part) + 1
		}
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	tag.SpanVal = loc.Span{Start: start, End: p.offset}
	return tag, nil
}

// parseConstTag requires exactly one variable declarator (§3).
func (p *Parser) parseConstTag(start int) (*ast.ConstTag, error) {
	if err := p.expectWhitespace(); err != nil {
		return nil, err
	}
	text, textStart, err := p.readExpressionText()
	if err != nil {
		return nil, err
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}

	const prefix = "const "
	prog, errs := p.js.ParseProgram(prefix+text+";", p.sourceType)
	if len(errs) > 0 || prog == nil {
		return nil, parseerr.Wrap(parseerr.ParseVariableDeclaration,
			loc.Span{Start: textStart, End: textStart + len(text)}, errs)
	}
	var decl *jsast.VariableDeclaration
	for _, stmt := range prog.Body {
		if d, ok := stmt.(*jsast.VariableDeclaration); ok {
			decl = d
			break
		}
	}
	if decl == nil || len(decl.Declarations) != 1 || decl.Declarations[0].Init == nil {
		return nil, parseerr.New(parseerr.ConstTagInvalidExpression,
			loc.Span{Start: start, End: p.offset},
			"{@const ...} must consist of exactly one declaration with an initializer")
	}
	declarator := decl.Declarations[0]
	jsast.SpanOffset(declarator, textStart-len(prefix))

	tag := &ast.ConstTag{Declaration: declarator}
	tag.SpanVal = loc.Span{Start: start, End: p.offset}
	return tag, nil
}

// parseRenderTag restricts the payload to a call expression, possibly
// behind an optional chain (§3).
func (p *Parser) parseRenderTag(start int) (*ast.RenderTag, error) {
	if err := p.expectWhitespace(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !isRenderableCall(expr) {
		return nil, parseerr.New(parseerr.RenderTagInvalidExpression, expr.Span(),
			"`{@render ...}` tags can only contain call expressions")
	}
	p.skipWhitespace()
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	tag := &ast.RenderTag{Expression: expr}
	tag.SpanVal = loc.Span{Start: start, End: p.offset}
	return tag, nil
}

func isRenderableCall(expr jsast.Expression) bool {
	switch e := expr.(type) {
	case *jsast.CallExpression:
		return true
	case *jsast.MemberExpression:
		// an optional chain around the call parses as a member step; dig
		// for the call underneath
		return e.Optional && isRenderableCall(e.Object)
	}
	return false
}
