// Package parser implements the hand-written recursive-descent parser
// over the component file format: elements, attributes and directives,
// template blocks, expression tags, scoped stylesheets, and embedded
// scripts. Embedded program text is delegated to the external program
// parser and re-spanned into file coordinates.
package parser

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/handler"
	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

// regexLangTS prechecks the whole source for a <script ... lang="ts" ...>
// opening so the TypeScript source-type flag can be selected before any
// tag is parsed.
var regexLangTS = regexp2.MustCompile(`<script\s(?=[^>]*lang=["']ts["'])[^>]*>`, 0)

type contextKind uint8

const (
	contextRoot contextKind = iota
	contextBlock
	contextRegularElement
	contextOtherElement
)

// parseContext is one entry of the element/block context stack. closedAt
// is set on a regular-element context when a later opening tag
// auto-closes it; the element parser splits its fragment there.
type parseContext struct {
	kind     contextKind
	name     string
	closedAt int // -1 when not auto-closed
}

type lastAutoClosedTag struct {
	tag    string
	reason string
	depth  int
}

// Parser owns all parse state for a single document. It is
// single-threaded and bound to one source string.
type Parser struct {
	source     string
	offset     int
	h          *handler.Handler
	js         *jsast.TreeSitterParser
	sourceType jsast.SourceType

	instance       *ast.Script
	module         *ast.Script
	css            *ast.StyleSheet
	options        *ast.Options
	contextStack   []*parseContext
	metaTags       map[string]bool
	lastAutoClosed *lastAutoClosedTag
}

// ParseResult carries the root and every accumulated diagnostic; a fatal
// error short-circuits the parse and arrives as the last entry.
type ParseResult struct {
	Root   *ast.Root
	Errors []error
}

// New trims trailing whitespace from the source and selects the
// source-type flag by pre-matching a TypeScript script opening.
func New(source string, h *handler.Handler) *Parser {
	source = strings.TrimRight(source, " \t\r\n")
	sourceType := jsast.SourceJS
	if ok, _ := regexLangTS.MatchString(source); ok {
		sourceType = jsast.SourceTS
	}
	return &Parser{
		source:     source,
		h:          h,
		js:         jsast.NewTreeSitterParser(),
		sourceType: sourceType,
		metaTags:   map[string]bool{},
	}
}

// Parse runs the fragment driver over the whole document. The root span
// covers the first non-whitespace character to the last.
func (p *Parser) Parse() ParseResult {
	p.pushContext(&parseContext{kind: contextRoot, name: "Root", closedAt: -1})
	fragment, err := p.parseFragment()
	p.popContext()
	if err == nil && p.offset < len(p.source) {
		// a stray {:...}, {/...} or </...> at top level
		err = p.strayTokenError()
	}

	root := &ast.Root{
		Module:   p.module,
		Instance: p.instance,
		CSS:      p.css,
		Options:  p.options,
		Fragment: fragment,
	}
	root.SpanVal = p.rootSpan(fragment)

	errs := append([]error{}, p.h.Errors()...)
	if err != nil {
		errs = append(errs, err)
	}
	return ParseResult{Root: root, Errors: errs}
}

func (p *Parser) strayTokenError() error {
	span := loc.Span{Start: p.offset, End: p.offset}
	if p.matchStr("</") {
		name := p.peekClosingTagName()
		if p.lastAutoClosed != nil && p.lastAutoClosed.tag == name {
			return parseerr.New(parseerr.ElementInvalidClosingTagAutoClosed, span,
				"`</%s>` attempted to close an element that was already auto-closed by `<%s>`",
				name, p.lastAutoClosed.reason)
		}
		return parseerr.New(parseerr.ElementInvalidClosingTag, span,
			"`</%s>` attempted to close an element that was not open", name)
	}
	return parseerr.New(parseerr.UnexpectedChar, span, "unexpected `%c`", p.source[p.offset])
}

func (p *Parser) rootSpan(fragment *ast.Fragment) loc.Span {
	if fragment == nil || len(fragment.Nodes) == 0 {
		return loc.Span{}
	}
	start := fragment.Nodes[0].Span().Start
	for start < len(p.source) && isWhitespace(rune(p.source[start])) {
		start++
	}
	end := fragment.Nodes[len(fragment.Nodes)-1].Span().End
	for end > start && isWhitespace(rune(p.source[end-1])) {
		end--
	}
	return loc.Span{Start: start, End: end}
}

// ---- context stack ---------------------------------------------------------

func (p *Parser) pushContext(ctx *parseContext) {
	p.contextStack = append(p.contextStack, ctx)
}

func (p *Parser) popContext() *parseContext {
	n := len(p.contextStack)
	if n == 0 {
		return nil
	}
	ctx := p.contextStack[n-1]
	p.contextStack = p.contextStack[:n-1]
	return ctx
}

func (p *Parser) parentContext() *parseContext {
	if len(p.contextStack) == 0 {
		return nil
	}
	return p.contextStack[len(p.contextStack)-1]
}

func (p *Parser) isParentRoot() bool {
	ctx := p.parentContext()
	return ctx != nil && ctx.kind == contextRoot
}

func (p *Parser) isParentRegularElement() bool {
	ctx := p.parentContext()
	return ctx != nil && ctx.kind == contextRegularElement
}

func (p *Parser) parentName() string {
	if ctx := p.parentContext(); ctx != nil {
		return ctx.name
	}
	return ""
}

// ---- embedded expressions --------------------------------------------------

// readExpressionText scans from the cursor to the `}` that closes the
// enclosing tag, balancing braces, brackets, and parens and skipping
// string, template-literal, and comment interiors. The terminator is not
// consumed. Returns the scanned slice and its start offset.
func (p *Parser) readExpressionText() (string, int, error) {
	start := p.offset
	depth := 0
	for p.offset < len(p.source) {
		c := p.source[p.offset]
		switch c {
		case '\'', '"', '`':
			if err := p.skipStringLiteral(); err != nil {
				return "", start, err
			}
			continue
		case '/':
			if p.matchStr("//") || p.matchStr("/*") {
				p.skipJSComment()
				continue
			}
		case '{', '(', '[':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				return p.source[start:p.offset], start, nil
			}
			depth--
		}
		p.offset++
	}
	return "", start, parseerr.New(parseerr.UnexpectedEOF,
		loc.Span{Start: p.offset, End: p.offset}, "unexpected end of input inside expression")
}

func (p *Parser) skipStringLiteral() error {
	quote := p.source[p.offset]
	p.offset++
	for p.offset < len(p.source) {
		c := p.source[p.offset]
		switch {
		case c == '\\':
			p.offset += 2
			if p.offset > len(p.source) {
				p.offset = len(p.source)
			}
			continue
		case c == quote:
			p.offset++
			return nil
		case quote == '`' && c == '$' && p.matchStr("${"):
			p.offset += 2
			depth := 1
			for p.offset < len(p.source) && depth > 0 {
				switch p.source[p.offset] {
				case '{':
					depth++
				case '}':
					depth--
				case '\'', '"', '`':
					if err := p.skipStringLiteral(); err != nil {
						return err
					}
					continue
				}
				p.offset++
			}
			continue
		}
		p.offset++
	}
	return parseerr.New(parseerr.UnexpectedEOF,
		loc.Span{Start: p.offset, End: p.offset}, "unterminated string")
}

func (p *Parser) skipJSComment() {
	if p.eatStr("//") {
		for p.offset < len(p.source) && p.source[p.offset] != '\n' {
			p.offset++
		}
		return
	}
	if p.eatStr("/*") {
		if idx := strings.Index(p.remain(), "*/"); idx >= 0 {
			p.offset += idx + 2
		} else {
			p.offset = len(p.source)
		}
	}
}

// parseExpression reads the expression text up to the enclosing `}` and
// hands it to the external program parser, translating the returned
// spans into file coordinates.
func (p *Parser) parseExpression() (jsast.Expression, error) {
	text, start, err := p.readExpressionText()
	if err != nil {
		return nil, err
	}
	return p.parseExpressionIn(text, start)
}

// parseExpressionIn parses text as an expression and offsets its spans
// by start (§6: parse at position zero, then SpanOffset).
func (p *Parser) parseExpressionIn(text string, start int) (jsast.Expression, error) {
	expr, errs := p.js.ParseExpression(text, p.sourceType)
	if len(errs) > 0 || expr == nil {
		return nil, parseerr.Wrap(parseerr.ParseExpression,
			loc.Span{Start: start, End: start + len(text)}, errs)
	}
	jsast.SpanOffset(expr, start)
	return expr, nil
}

func (p *Parser) parseProgram(text string, start int) (*jsast.Program, error) {
	prog, errs := p.js.ParseProgram(text, p.sourceType)
	if len(errs) > 0 || prog == nil {
		return nil, parseerr.Wrap(parseerr.ParseProgram,
			loc.Span{Start: start, End: p.offset}, errs)
	}
	jsast.SpanOffset(prog, start)
	return prog, nil
}

func (p *Parser) parsePatternIn(text string, start int) (jsast.Pattern, error) {
	pat, errs := p.js.ParsePattern(text, p.sourceType)
	if len(errs) > 0 || pat == nil {
		return nil, parseerr.Wrap(parseerr.ParseBindingPattern,
			loc.Span{Start: start, End: start + len(text)}, errs)
	}
	jsast.SpanOffset(pat, start)
	return pat, nil
}

// splitTopLevelKeyword splits text at the first occurrence of the bare
// keyword kw that sits at bracket depth zero and outside any string.
// Returns the pieces around the keyword and whether it was found.
func splitTopLevelKeyword(text, kw string) (left, right string, found bool) {
	depth := 0
	i := 0
	for i < len(text) {
		c := text[i]
		switch c {
		case '\'', '"', '`':
			j := skipStringIn(text, i)
			i = j
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if depth == 0 && strings.HasPrefix(text[i:], kw) &&
				(i == 0 || !isWordChar(text[i-1])) &&
				(i+len(kw) >= len(text) || !isWordChar(text[i+len(kw)])) {
				return text[:i], text[i+len(kw):], true
			}
		}
		i++
	}
	return text, "", false
}

func skipStringIn(text string, i int) int {
	quote := text[i]
	i++
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		i++
	}
	return i
}

func isWordChar(c byte) bool {
	return c == '_' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
