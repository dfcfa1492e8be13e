package parser

import (
	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

type fragmentNodeReturnKind uint8

const (
	fragmentNode fragmentNodeReturnKind = iota
	fragmentNodes
	fragmentClosePrev
	fragmentNextOrCloseBlock
	fragmentScript
	fragmentStyleSheet
	fragmentSvelteOptions
)

type parseFragmentNodeReturn struct {
	kind   fragmentNodeReturnKind
	node   ast.FragmentNode
	nodes  []ast.FragmentNode
	script *ast.Script
	css    *ast.StyleSheet
}

// parseFragment is the top-level loop (§4.G): it dispatches to the
// element, block, tag, and text sub-parsers until end-of-source or a
// token owned by the caller (`</`, `{:`, `{/`).
func (p *Parser) parseFragment() (*ast.Fragment, error) {
	start := p.offset
	fragment := ast.NewFragment(loc.Span{Start: start, End: start})
	for p.offset < len(p.source) && !p.matchStr("</") {
		ret, err := p.parseFragmentNode()
		if err != nil {
			return fragment, err
		}
		switch ret.kind {
		case fragmentNode:
			fragment.Nodes = append(fragment.Nodes, ret.node)
		case fragmentNodes:
			fragment.Nodes = append(fragment.Nodes, ret.nodes...)
		case fragmentClosePrev, fragmentNextOrCloseBlock:
			fragment.SpanVal.End = p.offset
			return fragment, nil
		case fragmentScript:
			ret.script.LeadingComment = findLeadingComment(fragment.Nodes)
			switch ret.script.Context {
			case ast.ScriptModule:
				if p.module != nil {
					return fragment, parseerr.New(parseerr.ScriptDuplicate,
						ret.script.Span(), "a component can have a single module-level `<script>` element")
				}
				p.module = ret.script
			default:
				if p.instance != nil {
					return fragment, parseerr.New(parseerr.ScriptDuplicate,
						ret.script.Span(), "a component can have a single instance-level `<script>` element")
				}
				p.instance = ret.script
			}
		case fragmentStyleSheet:
			if p.css != nil {
				return fragment, parseerr.New(parseerr.StyleDuplicate,
					ret.css.Span(), "a component can have a single `<style>` element")
			}
			ret.css.Content.Comment = findLeadingComment(fragment.Nodes)
			p.css = ret.css
		case fragmentSvelteOptions:
			// already stored on the parser by parseElement
		}
	}
	fragment.SpanVal.End = p.offset
	return fragment, nil
}

func (p *Parser) parseFragmentNode() (parseFragmentNodeReturn, error) {
	if p.matchCh('<') {
		ret, err := p.parseElement()
		if err != nil {
			return parseFragmentNodeReturn{}, err
		}
		switch ret.kind {
		case retElement:
			return parseFragmentNodeReturn{kind: fragmentNode, node: ret.element}, nil
		case retComment:
			return parseFragmentNodeReturn{kind: fragmentNode, node: ret.comment}, nil
		case retNodes:
			return parseFragmentNodeReturn{kind: fragmentNodes, nodes: ret.nodes}, nil
		case retClosePrev:
			return parseFragmentNodeReturn{kind: fragmentClosePrev}, nil
		case retScript:
			return parseFragmentNodeReturn{kind: fragmentScript, script: ret.script}, nil
		case retStyleSheet:
			return parseFragmentNodeReturn{kind: fragmentStyleSheet, css: ret.css}, nil
		case retSvelteOptions:
			return parseFragmentNodeReturn{kind: fragmentSvelteOptions}, nil
		}
	}

	if p.matchCh('{') {
		start := p.offset
		if err := p.expect('{'); err != nil {
			return parseFragmentNodeReturn{}, err
		}
		p.skipWhitespace()
		r, ok := p.peek()
		if !ok {
			return parseFragmentNodeReturn{}, parseerr.New(parseerr.UnexpectedEOF,
				loc.Span{Start: p.offset, End: p.offset}, "unexpected end of input")
		}
		switch r {
		case '#':
			block, err := p.parseBlock(start)
			if err != nil {
				return parseFragmentNodeReturn{}, err
			}
			return parseFragmentNodeReturn{kind: fragmentNode, node: block}, nil
		case ':', '/':
			// the caller owns this token
			p.offset = start
			return parseFragmentNodeReturn{kind: fragmentNextOrCloseBlock}, nil
		default:
			tag, err := p.parseTag(start)
			if err != nil {
				return parseFragmentNodeReturn{}, err
			}
			return parseFragmentNodeReturn{kind: fragmentNode, node: tag}, nil
		}
	}

	return parseFragmentNodeReturn{kind: fragmentNode, node: p.parseText()}, nil
}

// findLeadingComment walks backwards over already-accumulated nodes,
// skipping whitespace-only text, and returns the most recent Comment.
// Used to attribute a doc comment to the script or style it precedes.
func findLeadingComment(nodes []ast.FragmentNode) *ast.Comment {
	for i := len(nodes) - 1; i >= 0; i-- {
		switch n := nodes[i].(type) {
		case *ast.Comment:
			return n
		case *ast.Text:
			if regexNonWhitespace.MatchString(n.Raw) {
				return nil
			}
		default:
			return nil
		}
	}
	return nil
}
