package parser

import (
	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/htmlentity"
	"github.com/veltra-dev/compiler/internal/loc"
)

// parseText consumes raw character data up to the next `<` or `{`.
func (p *Parser) parseText() *ast.Text {
	start := p.offset
	for {
		r, ok := p.peek()
		if !ok || r == '<' || r == '{' {
			break
		}
		p.next()
	}
	return p.createText(loc.Span{Start: start, End: p.offset})
}

// createText builds a Text node for span: Raw is the exact source slice,
// Data its entity-decoded form.
func (p *Parser) createText(span loc.Span) *ast.Text {
	raw := span.Text(p.source)
	t := &ast.Text{Raw: raw, Data: htmlentity.Decode(raw)}
	t.SpanVal = span
	return t
}
