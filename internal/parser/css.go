package parser

import (
	"regexp"
	"strings"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

var (
	regexStartsWithClosingStyleTag = regexp.MustCompile(`^</style\s*>`)
	regexLeadingHyphenOrDigit      = regexp.MustCompile(`^[-?|\d]`)
	regexAttributeMatcher          = regexp.MustCompile(`^[~^$*|]?=`)
	regexAttributeFlags            = regexp.MustCompile(`^[a-zA-Z]+`)
	regexPercentage                = regexp.MustCompile(`^\d+(\.\d+)?%`)
	regexCombinator                = regexp.MustCompile(`^(\+|~|>|\|\|)`)
	regexNth                       = regexp.MustCompile(`^(even|odd|\+?(\d+|\d*n(\s*[+-]\s*\d+)?)|-\d*n(\s*\+\s*\d+))((\s+of\s+)|\s*[,)])`)
)

// parseStyleSheet parses the body between <style> and </style> (§4.E).
func (p *Parser) parseStyleSheet(start int, attributes []ast.Attribute) (*ast.StyleSheet, error) {
	contentStart := p.offset
	children, err := p.parseStyleSheetBody()
	if err != nil {
		return nil, err
	}
	contentEnd := p.offset
	if _, err := p.expectRegex(regexStartsWithClosingStyleTag); err != nil {
		return nil, err
	}
	content := ast.StyleSheetContent{
		SpanVal: loc.Span{Start: contentStart, End: contentEnd},
		Styles:  p.source[contentStart:contentEnd],
	}
	return ast.NewStyleSheet(loc.Span{Start: start, End: p.offset}, attributes, children, content), nil
}

func (p *Parser) parseStyleSheetBody() ([]ast.StyleSheetChild, error) {
	var children []ast.StyleSheetChild
	p.skipCommentOrWhitespace()
	for p.offset < len(p.source) {
		p.skipCommentOrWhitespace()
		if _, ok := p.matchRegex(regexStartsWithClosingStyleTag); ok {
			return children, nil
		}
		if p.matchCh('@') {
			atRule, err := p.parseCSSAtRule()
			if err != nil {
				return nil, err
			}
			children = append(children, atRule)
		} else {
			rule, err := p.parseCSSRule()
			if err != nil {
				return nil, err
			}
			children = append(children, rule)
		}
	}
	return nil, parseerr.New(parseerr.ExpectedStr,
		loc.Span{Start: p.offset, End: p.offset}, "expected `</style`")
}

func (p *Parser) parseCSSAtRule() (*ast.AtRule, error) {
	start := p.offset
	if err := p.expect('@'); err != nil {
		return nil, err
	}
	name, err := p.parseCSSIdentifier()
	if err != nil {
		return nil, err
	}
	prelude, err := p.parseCSSValue()
	if err != nil {
		return nil, err
	}
	atRule := &ast.AtRule{Name: name, Prelude: prelude}
	if p.matchCh('{') {
		// e.g. `@media (...) {...}`
		block, err := p.parseCSSBlock()
		if err != nil {
			return nil, err
		}
		atRule.Block = block
	} else {
		// e.g. `@import '...'`
		if err := p.expect(';'); err != nil {
			return nil, err
		}
	}
	atRule.SpanVal = loc.Span{Start: start, End: p.offset}
	return atRule, nil
}

func (p *Parser) parseCSSRule() (*ast.Rule, error) {
	start := p.offset
	prelude, err := p.parseSelectorList(false)
	if err != nil {
		return nil, err
	}
	block, err := p.parseCSSBlock()
	if err != nil {
		return nil, err
	}
	rule := &ast.Rule{Prelude: prelude, Block: block}
	rule.SpanVal = loc.Span{Start: start, End: p.offset}
	return rule, nil
}

func (p *Parser) parseCSSBlock() (*ast.CSSBlock, error) {
	start := p.offset
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var children []ast.CSSBlockChild
	for p.offset < len(p.source) {
		p.skipCommentOrWhitespace()
		if p.matchCh('}') {
			break
		}
		child, err := p.parseCSSBlockChild()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	block := &ast.CSSBlock{Children: children}
	block.SpanVal = loc.Span{Start: start, End: p.offset}
	return block, nil
}

// parseCSSBlockChild disambiguates a nested rule from a declaration by
// scanning ahead to the next `{`, `;`, or `}` and rewinding.
func (p *Parser) parseCSSBlockChild() (ast.CSSBlockChild, error) {
	if p.matchCh('@') {
		return p.parseCSSAtRule()
	}
	start := p.offset
	if _, err := p.parseCSSValue(); err != nil {
		return nil, err
	}
	r, ok := p.peek()
	if !ok {
		return nil, parseerr.New(parseerr.UnexpectedEOF,
			loc.Span{Start: p.offset, End: p.offset}, "unexpected end of input")
	}
	p.offset = start
	if r == '{' {
		return p.parseCSSRule()
	}
	return p.parseCSSDeclaration()
}

func (p *Parser) parseCSSDeclaration() (*ast.Declaration, error) {
	start := p.offset
	property := p.eatUntil(regexWhitespaceOrColon)
	p.skipWhitespace()
	p.eat(':')
	colon := p.offset
	p.skipWhitespace()

	value, err := p.parseCSSValue()
	if err != nil {
		return nil, err
	}
	// empty values are only legal on custom properties
	if value == "" && !strings.HasPrefix(property, "--") {
		return nil, parseerr.New(parseerr.CssEmptyDeclaration,
			loc.Span{Start: start, End: colon}, "declaration cannot be empty")
	}
	end := p.offset
	if !p.matchCh('}') {
		if err := p.expect(';'); err != nil {
			return nil, err
		}
	}
	decl := &ast.Declaration{Property: property, Value: value}
	decl.SpanVal = loc.Span{Start: start, End: end}
	return decl, nil
}

var regexWhitespaceOrColon = regexp.MustCompile(`[\s:]`)

// parseSelectorList parses comma-separated complex selectors, stopping
// at `{` (top-level) or `)` (inside a pseudo-class argument).
func (p *Parser) parseSelectorList(insidePseudoClass bool) (*ast.SelectorList, error) {
	var children []*ast.ComplexSelector
	p.skipCommentOrWhitespace()
	start := p.offset
	for p.offset < len(p.source) {
		sel, err := p.parseComplexSelector(insidePseudoClass)
		if err != nil {
			return nil, err
		}
		children = append(children, sel)
		end := p.offset
		p.skipCommentOrWhitespace()
		atEnd := p.matchCh('{')
		if insidePseudoClass {
			atEnd = p.matchCh(')')
		}
		if atEnd {
			list := &ast.SelectorList{Children: children}
			list.SpanVal = loc.Span{Start: start, End: end}
			return list, nil
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		p.skipCommentOrWhitespace()
	}
	return nil, parseerr.New(parseerr.UnexpectedEOF,
		loc.Span{Start: p.offset, End: p.offset}, "unexpected end of input")
}

func (p *Parser) parseComplexSelector(insidePseudoClass bool) (*ast.ComplexSelector, error) {
	listStart := p.offset
	var children []*ast.RelativeSelector
	relative := &ast.RelativeSelector{}
	relative.SpanVal = loc.Span{Start: listStart, End: listStart}

	for p.offset < len(p.source) {
		if err := p.parseSimpleSelector(relative, insidePseudoClass); err != nil {
			return nil, err
		}

		index := p.offset
		p.skipCommentOrWhitespace()
		atEnd := p.matchCh(',') || p.matchCh('{')
		if insidePseudoClass {
			atEnd = p.matchCh(',') || p.matchCh(')')
		}
		if atEnd {
			p.offset = index
			relative.SpanVal.End = index
			children = append(children, relative)
			complex := &ast.ComplexSelector{Children: children}
			complex.SpanVal = loc.Span{Start: listStart, End: index}
			return complex, nil
		}

		p.offset = index
		combinator, err := p.parseCSSCombinator()
		if err != nil {
			return nil, err
		}
		if combinator != nil {
			if len(relative.Selectors) > 0 {
				relative.SpanVal.End = index
				children = append(children, relative)
			}
			next := &ast.RelativeSelector{Combinator: combinator}
			next.SpanVal = loc.Span{Start: combinator.Span().Start, End: combinator.Span().Start}
			relative = next
			p.skipWhitespace()

			invalid := p.matchCh(',') || p.matchCh('{')
			if insidePseudoClass {
				invalid = p.matchCh(',') || p.matchCh(')')
			}
			if invalid {
				return nil, parseerr.New(parseerr.CssSelectorInvalid,
					loc.Span{Start: p.offset, End: p.offset}, "invalid selector")
			}
		}
	}
	return nil, parseerr.New(parseerr.UnexpectedEOF,
		loc.Span{Start: p.offset, End: p.offset}, "unexpected end of input")
}

func (p *Parser) parseSimpleSelector(relative *ast.RelativeSelector, insidePseudoClass bool) error {
	start := p.offset
	span := func() loc.Span { return loc.Span{Start: start, End: p.offset} }

	switch {
	case p.eat('&'):
		sel := &ast.NestingSelector{Name: "&"}
		sel.SpanVal = span()
		relative.Selectors = append(relative.Selectors, sel)

	case p.eat('*'):
		name := "*"
		if p.eat('|') {
			n, err := p.parseCSSIdentifier()
			if err != nil {
				return err
			}
			name = n
		}
		relative.Selectors = append(relative.Selectors, ast.NewTypeSelector(span(), name))

	case p.eat('#'):
		name, err := p.parseCSSIdentifier()
		if err != nil {
			return err
		}
		sel := &ast.IdSelector{Name: name}
		sel.SpanVal = span()
		relative.Selectors = append(relative.Selectors, sel)

	case p.eat('.'):
		name, err := p.parseCSSIdentifier()
		if err != nil {
			return err
		}
		sel := &ast.ClassSelector{Name: name}
		sel.SpanVal = span()
		relative.Selectors = append(relative.Selectors, sel)

	case p.eatStr("::"):
		name, err := p.parseCSSIdentifier()
		if err != nil {
			return err
		}
		sel := &ast.PseudoElementSelector{Name: name}
		sel.SpanVal = span()
		relative.Selectors = append(relative.Selectors, sel)
		// inner selectors of a pseudo element are read for validity but
		// discarded
		if p.eat('(') {
			if _, err := p.parseSelectorList(true); err != nil {
				return err
			}
			if err := p.expect(')'); err != nil {
				return err
			}
		}

	case p.eat(':'):
		name, err := p.parseCSSIdentifier()
		if err != nil {
			return err
		}
		sel := &ast.PseudoClassSelector{Name: name}
		if p.eat('(') {
			args, err := p.parseSelectorList(true)
			if err != nil {
				return err
			}
			if err := p.expect(')'); err != nil {
				return err
			}
			sel.Args = args
		}
		sel.SpanVal = span()
		relative.Selectors = append(relative.Selectors, sel)

	case p.eat('['):
		p.skipWhitespace()
		name, err := p.parseCSSIdentifier()
		if err != nil {
			return err
		}
		p.skipWhitespace()
		sel := &ast.AttributeSelector{Name: name}
		if matcher, ok := p.eatRegex(regexAttributeMatcher); ok {
			sel.Matcher = matcher
			p.skipWhitespace()
			value, err := p.parseCSSAttributeValue()
			if err != nil {
				return err
			}
			sel.Value = value
		}
		p.skipWhitespace()
		if flags, ok := p.eatRegex(regexAttributeFlags); ok {
			sel.Flags = flags
		}
		p.skipWhitespace()
		if err := p.expect(']'); err != nil {
			return err
		}
		sel.SpanVal = span()
		relative.Selectors = append(relative.Selectors, sel)

	default:
		if insidePseudoClass {
			if value, ok := p.eatNth(); ok {
				sel := &ast.Nth{Value: value}
				sel.SpanVal = span()
				relative.Selectors = append(relative.Selectors, sel)
				return nil
			}
		}
		if value, ok := p.eatRegex(regexPercentage); ok {
			sel := &ast.Percentage{Value: value}
			sel.SpanVal = span()
			relative.Selectors = append(relative.Selectors, sel)
			return nil
		}
		if _, isCombinator := p.matchRegex(regexCombinator); !isCombinator {
			name, err := p.parseCSSIdentifier()
			if err != nil {
				return err
			}
			if p.eat('|') {
				name, err = p.parseCSSIdentifier()
				if err != nil {
					return err
				}
			}
			relative.Selectors = append(relative.Selectors, ast.NewTypeSelector(span(), name))
		}
	}
	return nil
}

func (p *Parser) parseCSSCombinator() (*ast.Combinator, error) {
	start := p.offset
	p.skipWhitespace()

	index := p.offset
	if name, ok := p.eatRegex(regexCombinator); ok {
		end := p.offset
		p.skipWhitespace()
		return ast.NewCombinator(loc.Span{Start: index, End: end}, name), nil
	}
	if p.offset != start {
		// a run of whitespace is the descendant combinator
		return ast.NewCombinator(loc.Span{Start: start, End: p.offset}, " "), nil
	}
	return nil, nil
}

func (p *Parser) parseCSSIdentifier() (string, error) {
	start := p.offset
	if _, leading := p.eatRegex(regexLeadingHyphenOrDigit); leading || p.matchStr("--") {
		p.offset = start
		return "", parseerr.New(parseerr.CssExpectedIdentifier,
			loc.Span{Start: start, End: start}, "expected an identifier")
	}
	for {
		r, ok := p.peek()
		if !ok {
			break
		}
		if r == '\\' || r > 127 ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			r == '-' || r == '_' {
			p.next()
			continue
		}
		break
	}
	result := p.source[start:p.offset]
	if result == "" {
		return "", parseerr.New(parseerr.CssExpectedIdentifier,
			loc.Span{Start: start, End: start}, "expected an identifier")
	}
	return result, nil
}

func (p *Parser) parseCSSAttributeValue() (string, error) {
	var quote rune
	if p.eat('\'') {
		quote = '\''
	} else if p.eat('"') {
		quote = '"'
	}
	start := p.offset
	for {
		r, ok := p.peek()
		if !ok {
			return "", parseerr.New(parseerr.UnexpectedEOF,
				loc.Span{Start: p.offset, End: p.offset}, "unexpected end of input")
		}
		var done bool
		if quote != 0 {
			done = r == quote
		} else {
			done = isWhitespace(r) || r == ']'
		}
		if done {
			value := p.source[start:p.offset]
			if quote != 0 {
				if err := p.expect(quote); err != nil {
					return "", err
				}
			}
			return value, nil
		}
		p.next()
	}
}

// eatNth consumes an nth-expression (`2n+1`, `odd`, ...). The trailing
// ` of ` separator is kept, the `,`/`)` terminator is not.
func (p *Parser) eatNth() (string, bool) {
	m := regexNth.FindStringSubmatch(p.remain())
	if m == nil {
		return "", false
	}
	value := m[1]
	if m[6] != "" {
		// found " of " — keep the whole match including it
		value = m[0]
	}
	p.offset += len(value)
	return value, true
}
