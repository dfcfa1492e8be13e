package ast

import "github.com/veltra-dev/compiler/internal/jsast"

// Visitor is the template half of the visitor capability set (§4.H). The
// default Walk performs a depth-first pre-order traversal of the template
// tree, delegating embedded program nodes to the jsast.Visitor passed
// alongside. Visitors may be stateful; no values are returned.
//
// Scope-introducing template nodes (fragments, each blocks, snippet
// blocks) trigger EnterSvelteScope/LeaveSvelteScope; the porous flag is true for
// fragments, whose scopes are transparent (§3). Binding positions that
// the template itself introduces — each contexts and indexes, snippet
// parameters, await values and errors — arrive via VisitTemplatePattern
// rather than as identifier references.
type Visitor interface {
	EnterSvelteNode(n Node)
	LeaveSvelteNode(n Node)
	EnterSvelteScope(n Node, porous bool)
	LeaveSvelteScope(n Node)

	// VisitTemplatePattern is called for a binding-position pattern
	// introduced by owner, after owner's scope has been entered.
	VisitTemplatePattern(p jsast.Pattern, owner Node)
	// VisitSnippetDeclaration binds a snippet's name in the scope
	// enclosing the snippet block.
	VisitSnippetDeclaration(id *jsast.Identifier, b *SnippetBlock)
	VisitConstTag(t *ConstTag)
	// VisitBindDirective is called after the directive's expression has
	// been walked, so its references exist.
	VisitBindDirective(a *Attribute)
}

// Walk drives v over the template tree rooted at n and jv over every
// embedded program node reached from it.
func Walk(n Node, v Visitor, jv jsast.Visitor) {
	if n == nil {
		return
	}
	switch node := n.(type) {
	case *Root:
		v.EnterSvelteNode(node)
		if node.Module != nil {
			walkScript(node.Module, v, jv)
		}
		if node.Instance != nil {
			walkScript(node.Instance, v, jv)
		}
		walkFragment(node.Fragment, v, jv, nil)
		v.LeaveSvelteNode(node)

	case *Fragment:
		walkFragment(node, v, jv, nil)

	case *Text, *Comment:
		v.EnterSvelteNode(node)
		v.LeaveSvelteNode(node)

	case *Element:
		v.EnterSvelteNode(node)
		for i := range node.Attributes {
			walkAttribute(&node.Attributes[i], v, jv)
		}
		if node.Fragment != nil {
			walkFragment(node.Fragment, v, jv, nil)
		}
		v.LeaveSvelteNode(node)

	case *ExpressionTag:
		v.EnterSvelteNode(node)
		jsast.Walk(node.Expression, jv)
		v.LeaveSvelteNode(node)

	case *HtmlTag:
		v.EnterSvelteNode(node)
		jsast.Walk(node.Expression, jv)
		v.LeaveSvelteNode(node)

	case *DebugTag:
		v.EnterSvelteNode(node)
		for _, id := range node.Identifiers {
			jsast.Walk(id, jv)
		}
		v.LeaveSvelteNode(node)

	case *ConstTag:
		v.EnterSvelteNode(node)
		if node.Declaration != nil && node.Declaration.Init != nil {
			jsast.Walk(node.Declaration.Init, jv)
		}
		v.VisitConstTag(node)
		v.LeaveSvelteNode(node)

	case *RenderTag:
		v.EnterSvelteNode(node)
		jsast.Walk(node.Expression, jv)
		v.LeaveSvelteNode(node)

	case *IfBlock:
		v.EnterSvelteNode(node)
		jsast.Walk(node.Test, jv)
		walkFragment(node.Consequent, v, jv, nil)
		if node.Alternate != nil {
			walkFragment(node.Alternate, v, jv, nil)
		}
		v.LeaveSvelteNode(node)

	case *EachBlock:
		v.EnterSvelteNode(node)
		jsast.Walk(node.Expression, jv)
		v.EnterSvelteScope(node, false)
		if node.Context != nil {
			v.VisitTemplatePattern(node.Context, node)
		}
		if node.Index != nil {
			v.VisitTemplatePattern(node.Index, node)
		}
		if node.Key != nil {
			jsast.Walk(node.Key, jv)
		}
		walkFragment(node.Body, v, jv, nil)
		v.LeaveSvelteScope(node)
		if node.Fallback != nil {
			walkFragment(node.Fallback, v, jv, nil)
		}
		v.LeaveSvelteNode(node)

	case *AwaitBlock:
		v.EnterSvelteNode(node)
		jsast.Walk(node.Expression, jv)
		if node.Pending != nil {
			walkFragment(node.Pending, v, jv, nil)
		}
		if node.Then != nil {
			walkFragment(node.Then, v, jv, func() {
				if node.Value != nil {
					v.VisitTemplatePattern(node.Value, node)
				}
			})
		}
		if node.Catch != nil {
			walkFragment(node.Catch, v, jv, func() {
				if node.Error != nil {
					v.VisitTemplatePattern(node.Error, node)
				}
			})
		}
		v.LeaveSvelteNode(node)

	case *KeyBlock:
		v.EnterSvelteNode(node)
		jsast.Walk(node.Expression, jv)
		walkFragment(node.Body, v, jv, nil)
		v.LeaveSvelteNode(node)

	case *SnippetBlock:
		v.EnterSvelteNode(node)
		if node.Name != nil {
			v.VisitSnippetDeclaration(node.Name, node)
		}
		v.EnterSvelteScope(node, false)
		for _, p := range node.Params {
			v.VisitTemplatePattern(p, node)
		}
		walkFragment(node.Body, v, jv, nil)
		v.LeaveSvelteScope(node)
		v.LeaveSvelteNode(node)
	}
}

// walkFragment enters the fragment's transparent scope, runs pre (used by
// await branches to bind their value/error patterns inside the branch
// scope), then walks the children.
func walkFragment(f *Fragment, v Visitor, jv jsast.Visitor, pre func()) {
	if f == nil {
		return
	}
	v.EnterSvelteNode(f)
	v.EnterSvelteScope(f, true)
	if pre != nil {
		pre()
	}
	for _, child := range f.Nodes {
		Walk(child, v, jv)
	}
	v.LeaveSvelteScope(f)
	v.LeaveSvelteNode(f)
}

func walkScript(s *Script, v Visitor, jv jsast.Visitor) {
	v.EnterSvelteNode(s)
	if s.Program != nil {
		jsast.Walk(s.Program, jv)
	}
	v.LeaveSvelteNode(s)
}

func walkAttribute(a *Attribute, v Visitor, jv jsast.Visitor) {
	v.EnterSvelteNode(a)
	switch {
	case a.Kind == SpreadAttribute:
		jsast.Walk(a.SpreadExpr, jv)
	case a.Kind.IsDirective():
		if a.Expression != nil {
			jsast.Walk(a.Expression, jv)
		}
		if a.Kind == BindDirective {
			v.VisitBindDirective(a)
		}
		if a.Kind == StyleDirective {
			walkAttributeValue(a.Value, jv)
		}
	default:
		walkAttributeValue(a.Value, jv)
	}
	v.LeaveSvelteNode(a)
}

func walkAttributeValue(val AttributeValue, jv jsast.Visitor) {
	switch val.Kind {
	case ValueExpressionTag:
		if val.Expr != nil {
			jsast.Walk(val.Expr.Expression, jv)
		}
	case ValueQuoted:
		for _, part := range val.Parts {
			if part.Expr != nil {
				jsast.Walk(part.Expr.Expression, jv)
			}
		}
	}
}
