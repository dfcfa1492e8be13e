package parser

import (
	"strings"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
	"github.com/veltra-dev/compiler/internal/parser/autoclose"
)

type elementReturnKind uint8

const (
	retElement elementReturnKind = iota
	retComment
	retScript
	retStyleSheet
	retSvelteOptions
	retClosePrev
	retNodes
)

type parseElementReturn struct {
	kind    elementReturnKind
	element *ast.Element
	comment *ast.Comment
	script  *ast.Script
	css     *ast.StyleSheet
	nodes   []ast.FragmentNode
}

// parseElement handles everything that starts with `<`: comments,
// root-level scripts and styles, meta tags, components, and regular
// elements with their auto-close bookkeeping (§4.C).
func (p *Parser) parseElement() (parseElementReturn, error) {
	start := p.offset
	if err := p.expect('<'); err != nil {
		return parseElementReturn{}, err
	}

	if p.eatStr("!--") {
		data := p.eatUntil(regexClosingComment)
		if err := p.expectStr("-->"); err != nil {
			return parseElementReturn{}, err
		}
		comment := &ast.Comment{Data: data}
		comment.SpanVal = loc.Span{Start: start, End: p.offset}
		return parseElementReturn{kind: retComment, comment: comment}, nil
	}

	name := p.eatUntil(regexWhitespaceOrSlashOrClosingTag)

	// Auto-close: opening <name> may close the enclosing regular element;
	// record where, and let the parent split its fragment there.
	if p.isParentRegularElement() && autoclose.ClosingTagOmitted(p.parentName(), name) {
		parent := p.parentContext()
		if parent.closedAt < 0 {
			parent.closedAt = start
		}
		p.lastAutoClosed = &lastAutoClosedTag{
			tag:    p.parentName(),
			reason: name,
			depth:  len(p.contextStack),
		}
	}

	if strings.HasPrefix(name, "svelte:") && !ast.MetaTagNames[strings.TrimPrefix(name, "svelte:")] {
		return parseElementReturn{}, parseerr.New(parseerr.SvelteMetaInvalidTag,
			loc.Span{Start: start + 1, End: start + 1 + len(name)},
			"valid `svelte:...` tag names are svelte:head, svelte:options, svelte:window, svelte:document, svelte:body, svelte:element, svelte:component, svelte:self or svelte:fragment")
	}

	if !isValidElementName(name) && !isValidComponentName(name) {
		return parseElementReturn{}, parseerr.New(parseerr.TagInvalidName,
			loc.Span{Start: start + 1, End: start + 1 + len(name)}, "expected a valid element or component name")
	}

	if ast.RootOnlyMetaTags[name] {
		if p.metaTags[name] {
			return parseElementReturn{}, parseerr.New(parseerr.SvelteMetaDuplicate,
				loc.Span{Start: start, End: p.offset}, "a component can only have one `<%s>` element", name)
		}
		if !p.isParentRoot() {
			return parseElementReturn{}, parseerr.New(parseerr.SvelteMetaInvalidPlacement,
				loc.Span{Start: start, End: p.offset}, "`<%s>` tags cannot be inside elements or blocks", name)
		}
		p.metaTags[name] = true
	}

	kind := elementKind(name)

	p.skipWhitespace()
	isRootScript := p.isParentRoot() && name == "script"
	isRootStyle := p.isParentRoot() && name == "style"
	attributes, err := p.parseAttributes(isRootScript)
	if err != nil {
		return parseElementReturn{}, err
	}

	if isRootScript {
		if err := p.expect('>'); err != nil {
			return parseElementReturn{}, err
		}
		script, err := p.parseScript(start, attributes)
		if err != nil {
			return parseElementReturn{}, err
		}
		return parseElementReturn{kind: retScript, script: script}, nil
	}

	if isRootStyle {
		if err := p.expect('>'); err != nil {
			return parseElementReturn{}, err
		}
		css, err := p.parseStyleSheet(start, attributes)
		if err != nil {
			return parseElementReturn{}, err
		}
		return parseElementReturn{kind: retStyleSheet, css: css}, nil
	}

	// self-closing, or a void element that closes at its own `>`
	if p.eat('/') {
		if err := p.expect('>'); err != nil {
			return parseElementReturn{}, err
		}
		return p.finishElement(kind, name, attributes, start, nil)
	}
	if err := p.expect('>'); err != nil {
		return parseElementReturn{}, err
	}
	if autoclose.IsVoid(name) {
		return p.finishElement(kind, name, attributes, start, nil)
	}

	ctxKind := contextRegularElement
	if kind != ast.RegularElement {
		ctxKind = contextOtherElement
	}
	ctx := &parseContext{kind: ctxKind, name: name, closedAt: -1}
	p.pushContext(ctx)
	fragment, err := p.parseFragment()
	p.popContext()
	if err != nil {
		return parseElementReturn{}, err
	}

	// The context came back auto-closed: split the children at closedAt.
	// The prefix is this element's fragment, the suffix its siblings.
	if ctx.closedAt >= 0 {
		split := 0
		for split < len(fragment.Nodes) && fragment.Nodes[split].Span().Start < ctx.closedAt {
			split++
		}
		prefix := ast.NewFragment(loc.Span{Start: fragment.SpanVal.Start, End: ctx.closedAt})
		prefix.Nodes = fragment.Nodes[:split]
		element := &ast.Element{Kind: kind, Name: name, Attributes: attributes, Fragment: prefix, ScopeId: ast.NoScope}
		element.SpanVal = loc.Span{Start: start, End: ctx.closedAt}
		nodes := append([]ast.FragmentNode{element}, fragment.Nodes[split:]...)
		return parseElementReturn{kind: retNodes, nodes: nodes}, nil
	}

	closingName, hasClosing := p.peekClosingTagNameOk()
	if !hasClosing {
		return parseElementReturn{}, parseerr.New(parseerr.ExpectedClosingTag,
			loc.Span{Start: p.offset, End: p.offset}, "expected `</%s>`", name)
	}
	if closingName != name {
		// close elements that don't have their own closing tags,
		// e.g. <div><p></div>
		if !p.isParentRegularElement() {
			if p.lastAutoClosed != nil && p.lastAutoClosed.tag == name {
				return parseElementReturn{}, parseerr.New(parseerr.ElementInvalidClosingTagAutoClosed,
					loc.Span{Start: start, End: p.offset},
					"`</%s>` attempted to close element that was already auto-closed by `<%s>`",
					name, p.lastAutoClosed.reason)
			}
			return parseElementReturn{}, parseerr.New(parseerr.ElementInvalidClosingTag,
				loc.Span{Start: start, End: p.offset},
				"`</%s>` attempted to close an element that was not open", closingName)
		}
		if p.lastAutoClosed != nil && len(p.contextStack) < p.lastAutoClosed.depth {
			p.lastAutoClosed = nil
		}
		return p.finishElement(kind, name, attributes, start, fragment)
	}

	if _, err := p.expectRegex(regexClosingTag); err != nil {
		return parseElementReturn{}, err
	}
	return p.finishElement(kind, name, attributes, start, fragment)
}

func (p *Parser) finishElement(kind ast.ElementKind, name string, attributes []ast.Attribute, start int, fragment *ast.Fragment) (parseElementReturn, error) {
	span := loc.Span{Start: start, End: p.offset}
	if fragment == nil {
		fragment = ast.NewFragment(loc.Span{Start: p.offset, End: p.offset})
	}
	if kind == ast.SvelteOptionsElement {
		if err := p.parseSvelteOptions(span, attributes, fragment); err != nil {
			return parseElementReturn{}, err
		}
		return parseElementReturn{kind: retSvelteOptions}, nil
	}
	element := &ast.Element{Kind: kind, Name: name, Attributes: attributes, Fragment: fragment, ScopeId: ast.NoScope}
	element.SpanVal = span
	return parseElementReturn{kind: retElement, element: element}, nil
}

func elementKind(name string) ast.ElementKind {
	if k, ok := ast.MetaTagKind(name); ok {
		return k
	}
	switch {
	case name == "title":
		return ast.TitleElement
	case name == "slot":
		return ast.SlotElement
	case isValidComponentName(name):
		return ast.Component
	}
	return ast.RegularElement
}

func (p *Parser) peekClosingTagName() string {
	name, _ := p.peekClosingTagNameOk()
	return name
}

func (p *Parser) peekClosingTagNameOk() (string, bool) {
	m := regexClosingTag.FindStringSubmatch(p.remain())
	if m == nil {
		return "", false
	}
	return m[1], true
}
