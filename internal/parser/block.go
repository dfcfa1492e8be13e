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
	regexStartNextBlock  = regexp.MustCompile(`^\{\s*:`)
	regexStartCloseBlock = regexp.MustCompile(`^\{\s*/`)
)

// parseBlock dispatches on the keyword after `{#` (§4.D). start is the
// offset of the `{`.
func (p *Parser) parseBlock(start int) (ast.FragmentNode, error) {
	if err := p.expect('#'); err != nil {
		return nil, err
	}
	switch {
	case p.eatStr("if"):
		closed, block, err := p.parseIfBlock(start)
		if err != nil {
			return nil, err
		}
		if !closed {
			return nil, parseerr.New(parseerr.BlockUnclosed,
				loc.Span{Start: start, End: p.offset}, "block was left open")
		}
		return block, nil
	case p.eatStr("each"):
		return p.parseEachBlock(start)
	case p.eatStr("key"):
		return p.parseKeyBlock(start)
	case p.eatStr("await"):
		return p.parseAwaitBlock(start)
	case p.eatStr("snippet"):
		return p.parseSnippetBlock(start)
	}
	name := p.eatUntil(regexNotLowercaseAToZ)
	return nil, parseerr.New(parseerr.ExpectedBlockType,
		loc.Span{Start: start, End: p.offset},
		"expected `if`, `each`, `key`, `await` or `snippet`, found `%s`", name)
}

// parseIfBlock reports whether the block was closed by a `{/if}` — the
// recursive `{:else if}` form is closed by its enclosing one.
func (p *Parser) parseIfBlock(start int) (bool, *ast.IfBlock, error) {
	if err := p.expectWhitespace(); err != nil {
		return false, nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return false, nil, err
	}
	p.skipWhitespace()
	if err := p.expect('}'); err != nil {
		return false, nil, err
	}

	p.pushContext(&parseContext{kind: contextBlock, name: "if", closedAt: -1})
	defer p.popContext()

	consequent, err := p.parseFragment()
	if err != nil {
		return false, nil, err
	}
	block := &ast.IfBlock{Test: test, Consequent: consequent}
	closed := false

	alternateStart := p.offset
	if _, ok := p.eatRegex(regexStartNextBlock); ok {
		if !p.eatStr("else") {
			return false, nil, parseerr.New(parseerr.ExpectedStr,
				loc.Span{Start: p.offset, End: p.offset}, "expected `{:else}` or `{:else if}`")
		}
		if p.eatStr("if") {
			return false, nil, parseerr.New(parseerr.BlockInvalidElseif,
				loc.Span{Start: p.offset, End: p.offset}, "`elseif` should be `else if`")
		}
		p.skipWhitespace()
		if p.eatStr("if") {
			// {:else if ...} — the inner block is the sole child of the
			// alternate fragment, flagged elseif (§3).
			innerClosed, inner, err := p.parseIfBlock(alternateStart)
			if err != nil {
				return false, nil, err
			}
			closed = innerClosed
			inner.Elseif = true
			alternate := ast.NewFragment(loc.Span{Start: alternateStart, End: inner.Span().End})
			alternate.Nodes = []ast.FragmentNode{inner}
			block.Alternate = alternate
		} else {
			p.skipWhitespace()
			if err := p.expect('}'); err != nil {
				return false, nil, err
			}
			alternate, err := p.parseFragment()
			if err != nil {
				return false, nil, err
			}
			block.Alternate = alternate
		}
	}
	if _, ok := p.eatRegex(regexStartCloseBlock); ok {
		if err := p.expectStr("if"); err != nil {
			return false, nil, err
		}
		p.skipWhitespace()
		if err := p.expect('}'); err != nil {
			return false, nil, err
		}
		closed = true
	}
	block.SpanVal = loc.Span{Start: start, End: p.offset}
	return closed, block, nil
}

// parseEachBlock parses `{#each expr as context[, index] [(key)]}` with
// an optional `{:else}` fallback.
func (p *Parser) parseEachBlock(start int) (*ast.EachBlock, error) {
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

	exprText, rest, found := splitTopLevelKeyword(text, "as")
	if !found {
		return nil, parseerr.New(parseerr.ExpectedEachBlockAs,
			loc.Span{Start: textStart, End: textStart + len(text)}, "expected `as`")
	}
	expr, err := p.parseExpressionIn(strings.TrimSpace(exprText), textStart+leadingSpace(exprText))
	if err != nil {
		return nil, err
	}

	block := &ast.EachBlock{Expression: expr}
	restStart := textStart + len(exprText) + len("as")

	// trailing `(key)` group
	if open := lastTopLevelParen(rest); open >= 0 {
		keyText := rest[open:]
		keyInner := strings.TrimSpace(keyText[1 : len(keyText)-1])
		innerOffset := restStart + open + 1 + leadingSpace(keyText[1:len(keyText)-1])
		key, err := p.parseExpressionIn(keyInner, innerOffset)
		if err != nil {
			return nil, err
		}
		block.Key = key
		rest = rest[:open]
	}

	// `, index` after the context pattern
	patternText := rest
	if comma := lastTopLevelComma(rest); comma >= 0 {
		indexText := strings.TrimSpace(rest[comma+1:])
		if regexIdentifier.MatchString(indexText) && regexIdentifier.FindString(indexText) == indexText {
			id := &jsast.Identifier{Name: indexText}
			idStart := restStart + comma + 1 + leadingSpace(rest[comma+1:])
			jsast.SetSpan(id, loc.Span{Start: idStart, End: idStart + len(indexText)})
			block.Index = id
			patternText = rest[:comma]
		}
	}

	ctxText := strings.TrimSpace(patternText)
	if ctxText == "" {
		return nil, parseerr.New(parseerr.ExpectedEachBlockAs,
			loc.Span{Start: restStart, End: restStart}, "expected a binding pattern after `as`")
	}
	context, err := p.parsePatternIn(ctxText, restStart+leadingSpace(patternText))
	if err != nil {
		return nil, err
	}
	block.Context = context

	p.pushContext(&parseContext{kind: contextBlock, name: "each", closedAt: -1})
	body, err := p.parseFragment()
	if err != nil {
		p.popContext()
		return nil, err
	}
	if _, ok := p.eatRegex(regexStartNextBlock); ok {
		if err := p.expectStr("else"); err != nil {
			p.popContext()
			return nil, err
		}
		p.skipWhitespace()
		if err := p.expect('}'); err != nil {
			p.popContext()
			return nil, err
		}
		fallback, err := p.parseFragment()
		if err != nil {
			p.popContext()
			return nil, err
		}
		block.Fallback = fallback
	}
	p.popContext()
	if err := p.closeBlock(start, "each"); err != nil {
		return nil, err
	}
	block.Body = body
	block.SpanVal = loc.Span{Start: start, End: p.offset}
	return block, nil
}

func (p *Parser) parseKeyBlock(start int) (*ast.KeyBlock, error) {
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
	p.pushContext(&parseContext{kind: contextBlock, name: "key", closedAt: -1})
	body, err := p.parseFragment()
	p.popContext()
	if err != nil {
		return nil, err
	}
	if err := p.closeBlock(start, "key"); err != nil {
		return nil, err
	}
	block := &ast.KeyBlock{Expression: expr, Body: body}
	block.SpanVal = loc.Span{Start: start, End: p.offset}
	return block, nil
}

// parseAwaitBlock parses both the long form
// `{#await e}...{:then v}...{:catch err}...{/await}` and the inline
// `{#await e then v}` / `{#await e catch err}` shorthands.
func (p *Parser) parseAwaitBlock(start int) (*ast.AwaitBlock, error) {
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

	block := &ast.AwaitBlock{}
	exprText := text
	inlineClause := ""
	var clauseText string
	if left, right, ok := splitTopLevelKeyword(text, "then"); ok {
		exprText, inlineClause, clauseText = left, "then", right
	} else if left, right, ok := splitTopLevelKeyword(text, "catch"); ok {
		exprText, inlineClause, clauseText = left, "catch", right
	}

	expr, err := p.parseExpressionIn(strings.TrimSpace(exprText), textStart+leadingSpace(exprText))
	if err != nil {
		return nil, err
	}
	block.Expression = expr

	p.pushContext(&parseContext{kind: contextBlock, name: "await", closedAt: -1})
	defer p.popContext()

	bindClause := func(clause, patText string, patStart int) error {
		patText = strings.TrimSpace(patText)
		if patText == "" {
			return nil
		}
		pat, err := p.parsePatternIn(patText, patStart)
		if err != nil {
			return err
		}
		if clause == "then" {
			block.Value = pat
		} else {
			block.Error = pat
		}
		return nil
	}

	seen := map[string]bool{}
	if inlineClause != "" {
		clauseStart := textStart + len(exprText) + len(inlineClause)
		if err := bindClause(inlineClause, clauseText, clauseStart+leadingSpace(clauseText)); err != nil {
			return nil, err
		}
		fragment, err := p.parseFragment()
		if err != nil {
			return nil, err
		}
		if inlineClause == "then" {
			block.Then = fragment
		} else {
			block.Catch = fragment
		}
		seen[inlineClause] = true
	} else {
		pending, err := p.parseFragment()
		if err != nil {
			return nil, err
		}
		block.Pending = pending
	}

	for {
		if _, ok := p.eatRegex(regexStartNextBlock); !ok {
			break
		}
		clauseStart := p.offset
		var clause string
		if p.eatStr("then") {
			clause = "then"
		} else if p.eatStr("catch") {
			clause = "catch"
		} else {
			return nil, parseerr.New(parseerr.ExpectedStr,
				loc.Span{Start: clauseStart, End: p.offset}, "expected `{:then ...}` or `{:catch ...}`")
		}
		if seen[clause] {
			return nil, parseerr.New(parseerr.BlockDuplicateClause,
				loc.Span{Start: clauseStart, End: p.offset}, "`{:%s}` cannot appear more than once", clause)
		}
		seen[clause] = true
		patText, patStart, err := p.readExpressionText()
		if err != nil {
			return nil, err
		}
		if err := p.expect('}'); err != nil {
			return nil, err
		}
		if err := bindClause(clause, patText, patStart+leadingSpace(patText)); err != nil {
			return nil, err
		}
		fragment, err := p.parseFragment()
		if err != nil {
			return nil, err
		}
		if clause == "then" {
			block.Then = fragment
		} else {
			block.Catch = fragment
		}
	}

	if err := p.closeBlock(start, "await"); err != nil {
		return nil, err
	}
	block.SpanVal = loc.Span{Start: start, End: p.offset}
	return block, nil
}

func (p *Parser) parseSnippetBlock(start int) (*ast.SnippetBlock, error) {
	if err := p.expectWhitespace(); err != nil {
		return nil, err
	}
	nameStart := p.offset
	name, ok := p.eatRegex(regexIdentifier)
	if !ok || name == "" {
		return nil, parseerr.New(parseerr.ExpectedStr,
			loc.Span{Start: p.offset, End: p.offset}, "expected a snippet name")
	}
	id := &jsast.Identifier{Name: name}
	jsast.SetSpan(id, loc.Span{Start: nameStart, End: p.offset})

	block := &ast.SnippetBlock{Name: id}
	if p.matchCh('(') {
		paramsText, paramsStart, err := p.readParenText()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(paramsText) != "" {
			params, errs := p.js.ParseParams(paramsText, p.sourceType)
			if len(errs) > 0 {
				return nil, parseerr.Wrap(parseerr.ParseBindingPattern,
					loc.Span{Start: paramsStart, End: paramsStart + len(paramsText)}, errs)
			}
			for _, param := range params {
				jsast.SpanOffset(param, paramsStart)
			}
			block.Params = params
		}
	}
	p.skipWhitespace()
	if err := p.expect('}'); err != nil {
		return nil, err
	}

	p.pushContext(&parseContext{kind: contextBlock, name: "snippet", closedAt: -1})
	body, err := p.parseFragment()
	p.popContext()
	if err != nil {
		return nil, err
	}
	if err := p.closeBlock(start, "snippet"); err != nil {
		return nil, err
	}
	block.Body = body
	block.SpanVal = loc.Span{Start: start, End: p.offset}
	return block, nil
}

// readParenText consumes a balanced `(...)` group and returns its inner
// text and the offset of the first inner byte.
func (p *Parser) readParenText() (string, int, error) {
	if err := p.expect('('); err != nil {
		return "", 0, err
	}
	start := p.offset
	depth := 1
	for p.offset < len(p.source) {
		switch p.source[p.offset] {
		case '\'', '"', '`':
			if err := p.skipStringLiteral(); err != nil {
				return "", start, err
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				text := p.source[start:p.offset]
				p.offset++
				return text, start, nil
			}
		}
		p.offset++
	}
	return "", start, parseerr.New(parseerr.UnexpectedEOF,
		loc.Span{Start: p.offset, End: p.offset}, "unexpected end of input")
}

// closeBlock expects `{/name}`, reporting an open block otherwise.
func (p *Parser) closeBlock(start int, name string) error {
	if _, ok := p.eatRegex(regexStartCloseBlock); !ok {
		return parseerr.New(parseerr.BlockUnclosed,
			loc.Span{Start: start, End: p.offset}, "block was left open")
	}
	if err := p.expectStr(name); err != nil {
		return err
	}
	p.skipWhitespace()
	return p.expect('}')
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\r\n"))
}

// lastTopLevelParen returns the index of the `(` opening a trailing
// parenthesized group, or -1 when the text does not end with one.
func lastTopLevelParen(s string) int {
	t := strings.TrimRight(s, " \t\r\n")
	if !strings.HasSuffix(t, ")") {
		return -1
	}
	depth := 0
	for i := len(t) - 1; i >= 0; i-- {
		switch t[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func lastTopLevelComma(s string) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			depth--
		case ',':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
