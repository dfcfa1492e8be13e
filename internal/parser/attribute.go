package parser

import (
	"regexp"
	"strings"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

var (
	regexTokenEndingCharacter          = regexp.MustCompile(`[\s=/>"']`)
	regexStaticAttributeValue          = regexp.MustCompile(`^(?:"[^"]*"|'[^']*'|[^>\s]+)`)
	regexStartsWithQuoteCharacters     = regexp.MustCompile(`^["']`)
	regexInvalidUnquotedAttributeValue = regexp.MustCompile("^(/>|[\\s\"'=<>`])")
)

var directiveKinds = map[string]ast.AttributeKind{
	"animate":    ast.AnimateDirective,
	"bind":       ast.BindDirective,
	"class":      ast.ClassDirective,
	"let":        ast.LetDirective,
	"on":         ast.OnDirective,
	"style":      ast.StyleDirective,
	"transition": ast.TransitionDirective,
	"in":         ast.TransitionDirective,
	"out":        ast.TransitionDirective,
	"use":        ast.UseDirective,
}

// parseAttributes loops over attributes until the cursor reaches the end
// of the tag, enforcing the per-element uniqueness rule: `bind:x` and
// bare `x` collide, `class:x`/`style:x` and bare `x` do not, and `this`
// is exempt.
func (p *Parser) parseAttributes(parseStatic bool) ([]ast.Attribute, error) {
	var attributes []ast.Attribute
	unique := map[[2]string]bool{}
	for {
		attr, ok, err := p.parseAttributeImpl(parseStatic)
		if err != nil {
			return nil, err
		}
		if !ok {
			return attributes, nil
		}
		kind, name := attr.UniquenessKey()
		if attr.Kind == ast.NormalAttribute || attr.Kind == ast.BindDirective ||
			attr.Kind == ast.ClassDirective || attr.Kind == ast.StyleDirective {
			key := [2]string{kind, name}
			if unique[key] {
				return nil, parseerr.New(parseerr.AttributeDuplicate, attr.Span(),
					"attributes need to be unique")
			}
			if name != "this" {
				unique[key] = true
			}
		}
		attributes = append(attributes, *attr)
		p.skipWhitespace()
	}
}

func (p *Parser) parseAttributeImpl(parseStatic bool) (*ast.Attribute, bool, error) {
	if parseStatic {
		return p.parseStaticAttribute()
	}
	return p.parseAttribute()
}

func (p *Parser) parseAttribute() (*ast.Attribute, bool, error) {
	start := p.offset
	if p.eat('{') {
		p.skipWhitespace()
		if p.eatStr("...") {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, false, err
			}
			p.skipWhitespace()
			if err := p.expect('}'); err != nil {
				return nil, false, err
			}
			attr := &ast.Attribute{Kind: ast.SpreadAttribute, SpreadExpr: expr}
			attr.SpanVal = loc.Span{Start: start, End: p.offset}
			return attr, true, nil
		}

		// shorthand: {name} sugars to name={name}
		name, ident, err := p.eatIdentifier()
		if err != nil {
			return nil, false, err
		}
		if name == "" {
			return nil, false, parseerr.New(parseerr.AttributeEmptyShorthand,
				loc.Span{Start: start, End: p.offset}, "attribute shorthand cannot be empty")
		}
		p.skipWhitespace()
		if err := p.expect('}'); err != nil {
			return nil, false, err
		}
		tag := &ast.ExpressionTag{Expression: ident}
		tag.SpanVal = ident.Span()
		attr := &ast.Attribute{
			Kind:  ast.NormalAttribute,
			Name:  name,
			Value: ast.AttributeValue{Kind: ast.ValueExpressionTag, Expr: tag},
		}
		attr.SpanVal = loc.Span{Start: start, End: p.offset}
		return attr, true, nil
	}

	name := p.eatUntil(regexTokenEndingCharacter)
	if name == "" {
		return nil, false, nil
	}

	end := p.offset
	p.skipWhitespace()

	value := ast.AttributeValue{Kind: ast.ValueTrue}
	if p.eat('=') {
		p.skipWhitespace()
		v, err := p.parseAttributeValue()
		if err != nil {
			return nil, false, err
		}
		value = v
		end = p.offset
	} else if _, ok := p.matchRegex(regexStartsWithQuoteCharacters); ok {
		return nil, false, parseerr.New(parseerr.ExpectedChar,
			loc.Span{Start: p.offset, End: p.offset}, "expected `=`")
	}

	if colon := strings.IndexByte(name, ':'); colon >= 0 {
		if kind, ok := directiveKinds[name[:colon]]; ok {
			return p.buildDirective(kind, name, colon, value, start, end)
		}
	}

	attr := &ast.Attribute{Kind: ast.NormalAttribute, Name: name, Value: value}
	attr.SpanVal = loc.Span{Start: start, End: end}
	attr.KeyLoc = loc.Span{Start: start, End: start + len(name)}
	return attr, true, nil
}

func (p *Parser) buildDirective(kind ast.AttributeKind, name string, colon int, value ast.AttributeValue, start, end int) (*ast.Attribute, bool, error) {
	rest := name[colon+1:]
	directiveName := rest
	var modifiers []string
	if pipe := strings.IndexByte(rest, '|'); pipe >= 0 {
		directiveName = rest[:pipe]
		modifiers = strings.Split(rest[pipe+1:], "|")
	}
	if directiveName == "" {
		return nil, false, parseerr.New(parseerr.DirectiveMissingName,
			loc.Span{Start: start, End: start + colon + 1}, "`%s` name cannot be empty", name[:colon])
	}

	attr := &ast.Attribute{
		Kind:      kind,
		Name:      directiveName,
		Modifiers: modifiers,
	}
	attr.SpanVal = loc.Span{Start: start, End: end}
	attr.KeyLoc = loc.Span{Start: start, End: start + len(name)}

	if kind == ast.TransitionDirective {
		switch name[:colon] {
		case "transition":
			attr.Intro, attr.Outro = true, true
		case "in":
			attr.Intro = true
		case "out":
			attr.Outro = true
		}
	}

	// style: keeps the raw attribute value; every other directive demands
	// an expression.
	if kind == ast.StyleDirective {
		attr.Value = value
		return attr, true, nil
	}

	expr, ok := directiveExpression(value)
	if !ok {
		return nil, false, parseerr.New(parseerr.DirectiveInvalidValue, attr.Span(),
			"directive value must be a JavaScript expression enclosed in curly braces")
	}
	// <p class:isRed /> means class:isRed={isRed}
	if expr == nil && (kind == ast.BindDirective || kind == ast.ClassDirective) {
		parsed, err := p.parseExpressionIn(directiveName, start+colon+1)
		if err != nil {
			return nil, false, err
		}
		expr = parsed
	}
	attr.Expression = expr
	return attr, true, nil
}

// directiveExpression normalizes "single expression tag" and
// "single-element quoted expression tag" to the same extraction path
// (§9). A text value is invalid; a bare boolean presence yields nil.
func directiveExpression(value ast.AttributeValue) (jsast.Expression, bool) {
	switch value.Kind {
	case ast.ValueTrue:
		return nil, true
	case ast.ValueExpressionTag:
		return value.Expr.Expression, true
	case ast.ValueQuoted:
		if len(value.Parts) == 1 && value.Parts[0].Expr != nil {
			return value.Parts[0].Expr.Expression, true
		}
		return nil, false
	}
	return nil, false
}

// parseStaticAttribute is used inside <script> openings, where no
// expression interpolation is allowed.
func (p *Parser) parseStaticAttribute() (*ast.Attribute, bool, error) {
	start := p.offset
	name := p.eatUntil(regexTokenEndingCharacter)
	if name == "" {
		return nil, false, nil
	}
	value := ast.AttributeValue{Kind: ast.ValueTrue}
	if p.eat('=') {
		p.skipWhitespace()
		raw, ok := p.matchRegex(regexStaticAttributeValue)
		if !ok || raw == "" {
			return nil, false, parseerr.New(parseerr.ExpectedRegex,
				loc.Span{Start: p.offset, End: p.offset}, "expected an attribute value")
		}
		p.offset += len(raw)
		quoted := raw[0] == '\'' || raw[0] == '"'
		textSpan := loc.Span{Start: p.offset - len(raw), End: p.offset}
		if quoted {
			raw = raw[1 : len(raw)-1]
			textSpan = loc.Span{Start: textSpan.Start + 1, End: textSpan.End - 1}
		}
		value = ast.AttributeValue{Kind: ast.ValueQuoted, Parts: []ast.QuotedPart{
			{Text: p.createText(textSpan)},
		}}
	}
	if _, ok := p.matchRegex(regexStartsWithQuoteCharacters); ok {
		return nil, false, parseerr.New(parseerr.ExpectedChar,
			loc.Span{Start: p.offset, End: p.offset}, "expected `=`")
	}
	attr := &ast.Attribute{Kind: ast.NormalAttribute, Name: name, Value: value}
	attr.SpanVal = loc.Span{Start: start, End: p.offset}
	attr.KeyLoc = loc.Span{Start: start, End: start + len(name)}
	return attr, true, nil
}

func (p *Parser) parseAttributeValue() (ast.AttributeValue, error) {
	var quote rune
	if p.eat('"') {
		quote = '"'
	} else if p.eat('\'') {
		quote = '\''
	}

	if quote != 0 && p.eat(quote) {
		// empty quoted value yields one empty Text
		span := loc.Span{Start: p.offset - 1, End: p.offset - 1}
		return ast.AttributeValue{Kind: ast.ValueQuoted, Parts: []ast.QuotedPart{
			{Text: p.createText(span)},
		}}, nil
	}

	done := func() bool {
		if quote != 0 {
			return p.matchCh(quote)
		}
		_, ok := p.matchRegex(regexInvalidUnquotedAttributeValue)
		return ok
	}
	parts, err := p.parseSequence(done, "in attribute value")
	if err != nil {
		return ast.AttributeValue{}, err
	}
	if len(parts) == 0 && quote == 0 {
		return ast.AttributeValue{}, parseerr.New(parseerr.ExpectedRegex,
			loc.Span{Start: p.offset, End: p.offset}, "expected an attribute value")
	}
	if quote != 0 {
		if err := p.expect(quote); err != nil {
			return ast.AttributeValue{}, err
		}
	}

	if quote != 0 || len(parts) > 1 || (len(parts) == 1 && parts[0].IsText()) {
		return ast.AttributeValue{Kind: ast.ValueQuoted, Parts: parts}, nil
	}
	return ast.AttributeValue{Kind: ast.ValueExpressionTag, Expr: parts[0].Expr}, nil
}

// parseSequence collects the interleaved Text | {expr} runs that make up
// attribute values. done reports when the terminator is at the cursor.
func (p *Parser) parseSequence(done func() bool, location string) ([]ast.QuotedPart, error) {
	textStart := p.offset
	var parts []ast.QuotedPart
	flushText := func(span loc.Span) {
		if span.Len() > 0 {
			parts = append(parts, ast.QuotedPart{Text: p.createText(span)})
		}
	}

	for p.offset < len(p.source) {
		if done() {
			flushText(loc.Span{Start: textStart, End: p.offset})
			return parts, nil
		}
		if p.eat('{') {
			tagStart := p.offset - 1
			if p.eat('#') {
				name := p.eatUntil(regexNotLowercaseAToZ)
				return nil, parseerr.New(parseerr.BlockInvalidPlacement,
					loc.Span{Start: tagStart, End: p.offset},
					"{#%s ...} block cannot appear %s", name, location)
			}
			if p.eat('@') {
				name := p.eatUntil(regexNotLowercaseAToZ)
				return nil, parseerr.New(parseerr.TagInvalidPlacement,
					loc.Span{Start: tagStart, End: p.offset},
					"{@%s ...} tag cannot appear %s", name, location)
			}
			flushText(loc.Span{Start: textStart, End: tagStart})

			p.skipWhitespace()
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			p.skipWhitespace()
			if err := p.expect('}'); err != nil {
				return nil, err
			}
			tag := &ast.ExpressionTag{Expression: expr}
			tag.SpanVal = loc.Span{Start: tagStart, End: p.offset}
			parts = append(parts, ast.QuotedPart{Expr: tag})
			textStart = p.offset
		} else {
			p.next()
		}
	}
	return nil, parseerr.New(parseerr.UnexpectedEOF,
		loc.Span{Start: p.offset, End: p.offset}, "unexpected end of input")
}

// eatIdentifier consumes a leading identifier and returns it both as text
// and as a parsed expression node spanning it in file coordinates.
func (p *Parser) eatIdentifier() (string, jsast.Expression, error) {
	name, ok := p.eatRegex(regexIdentifier)
	if !ok || name == "" {
		return "", nil, nil
	}
	expr, err := p.parseExpressionIn(name, p.offset-len(name))
	if err != nil {
		return "", nil, err
	}
	return name, expr, nil
}
