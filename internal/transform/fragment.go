package transform

import (
	"regexp"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/veltra-dev/compiler/internal/analyzer"
	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/jsast"
)

var (
	regexNotWhitespace       = regexp.MustCompile(`\S`)
	regexEndsWithWhitespaces = regexp.MustCompile(`\s+$`)
)

// cleanNodesReturn is the partition+classification of a fragment's
// children (§4.J steps 1-3).
type cleanNodesReturn struct {
	hoisted      []ast.FragmentNode
	trimmed      []ast.FragmentNode
	isStandalone bool
	isTextFirst  bool
}

// removeEntirelyNames are the table-group elements whose isolated
// single-space text children are dropped during collapsing.
var removeEntirelyNames = map[string]bool{
	"select": true, "tr": true, "table": true, "tbody": true,
	"thead": true, "tfoot": true, "colgroup": true, "datalist": true,
}

type fragmentParent struct {
	kind string // "fragment", "element", "snippet", "each", "component", "self"
	name string // element name when kind == "element"
}

// cleanNodes partitions children into hoisted tags and trimmed regular
// nodes, collapses whitespace, and classifies the result.
func (t *Transformer) cleanNodes(nodes []ast.FragmentNode, parent fragmentParent) cleanNodesReturn {
	var hoisted, regular []ast.FragmentNode
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.Element:
			switch n.Kind {
			case ast.SvelteBody, ast.SvelteWindow, ast.SvelteDocument, ast.SvelteHead, ast.TitleElement:
				hoisted = append(hoisted, node)
				continue
			}
		case *ast.ConstTag, *ast.DebugTag, *ast.SnippetBlock, *ast.Comment:
			hoisted = append(hoisted, node)
			continue
		}
		regular = append(regular, node)
	}

	// strip leading/trailing whitespace-only text nodes
	first := len(regular)
	for i, node := range regular {
		if !isWhitespaceText(node) {
			first = i
			break
		}
	}
	last := -1
	for i := len(regular) - 1; i >= 0; i-- {
		if !isWhitespaceText(regular[i]) {
			last = i
			break
		}
	}
	if first <= last {
		regular = regular[first : last+1]
	} else {
		regular = nil
	}

	// strip the trailing whitespace run of the first and last texts;
	// leading whitespace is never touched
	if len(regular) > 0 {
		replaceTrailingWhitespace(regular[0], "")
		replaceTrailingWhitespace(regular[len(regular)-1], "")
	}

	canRemoveEntirely := parent.kind == "element" && removeEntirelyNames[parent.name]

	var trimmed []ast.FragmentNode
	for i, node := range regular {
		text, isText := node.(*ast.Text)
		if !isText {
			trimmed = append(trimmed, node)
			continue
		}
		var prev, next ast.FragmentNode
		if len(trimmed) > 0 {
			prev = trimmed[len(trimmed)-1]
		}
		if i+1 < len(regular) {
			next = regular[i+1]
		}
		// only the trailing whitespace run of a text node is ever
		// rewritten: collapsed to one space after a non-expression-tag
		// neighbour (dropped when the previous text already ends in
		// whitespace), and to one space at the end of the sequence
		if !isExpressionTag(prev) {
			whitespace := " "
			if prevText, ok := prev.(*ast.Text); ok && regexEndsWithWhitespaces.MatchString(prevText.Data) {
				whitespace = ""
			}
			replaceTrailingWhitespace(node, whitespace)
		}
		if next == nil || isExpressionTag(next) {
			replaceTrailingWhitespace(node, " ")
		}
		if text.Data != "" && (text.Data != " " || !canRemoveEntirely) {
			trimmed = append(trimmed, node)
		}
	}

	isStandalone := false
	if len(trimmed) == 1 {
		switch n := trimmed[0].(type) {
		case *ast.RenderTag:
			isStandalone = true
		case *ast.Element:
			isStandalone = n.Kind == ast.Component
		}
	}

	isTextFirst := false
	switch parent.kind {
	case "fragment", "snippet", "each", "component", "self":
		if len(trimmed) > 0 {
			switch trimmed[0].(type) {
			case *ast.Text, *ast.ExpressionTag:
				isTextFirst = true
			}
		}
	}

	return cleanNodesReturn{
		hoisted:      hoisted,
		trimmed:      trimmed,
		isStandalone: isStandalone,
		isTextFirst:  isTextFirst,
	}
}

func isWhitespaceText(node ast.FragmentNode) bool {
	text, ok := node.(*ast.Text)
	return ok && !regexNotWhitespace.MatchString(text.Data)
}

func isExpressionTag(node ast.FragmentNode) bool {
	_, ok := node.(*ast.ExpressionTag)
	return ok
}

func replaceTrailingWhitespace(node ast.FragmentNode, whitespace string) {
	if text, ok := node.(*ast.Text); ok {
		text.Data = regexEndsWithWhitespaces.ReplaceAllString(text.Data, whitespace)
		text.Raw = regexEndsWithWhitespaces.ReplaceAllString(text.Raw, whitespace)
	}
}

// visitFragment lowers one fragment to the statements that construct and
// update its DOM at runtime (§4.J step 4). The update buffer collected
// while visiting children is wrapped into one $.template_effect closure.
func (t *Transformer) visitFragment(fragment *ast.Fragment) []jsast.Statement {
	return t.visitFragmentIn(fragment, fragmentParent{kind: "fragment"})
}

func (t *Transformer) visitFragmentIn(fragment *ast.Fragment, parent fragmentParent) []jsast.Statement {
	if fragment == nil {
		return nil
	}
	prev := t.enterScope(analyzer.ScopeId(fragment.ScopeId))
	defer func() { t.currentScope = prev }()

	var body []jsast.Statement
	var closeStmt jsast.Statement

	clean := t.cleanNodes(fragment.Nodes, parent)

	// anchor advancement for hydration
	if clean.isTextFirst {
		body = append(body, exprStatement(runtimeCall("next")))
	}

	singleElement := singleRegularElement(clean.trimmed)
	if singleElement != nil {
		body = append(body, t.lowerSingleElement(singleElement)...)
	} else if len(clean.trimmed) > 0 {
		anyTag := false
		allTextLike := true
		for _, node := range clean.trimmed {
			switch node.(type) {
			case *ast.ExpressionTag:
				anyTag = true
			case *ast.Text:
			default:
				allTextLike = false
			}
		}
		// "space template": only texts and expression tags, with at
		// least one tag
		if anyTag && allTextLike {
			textName := t.analysis.Generate("text", t.currentScope)
			for _, node := range clean.trimmed {
				tag, ok := node.(*ast.ExpressionTag)
				if !ok {
					continue
				}
				if t.refersToState(tag.Expression) {
					t.update = append(t.update, exprStatement(
						runtimeCall("set_text", identifier(textName), tag.Expression)))
				}
			}
			body = append(body, varDeclaration(textName, runtimeCall("text")))
			closeStmt = exprStatement(runtimeCall("append", identifier("$$anchor"), identifier(textName)))
		}
	}

	if len(t.update) > 0 {
		update := t.takeUpdate()
		body = append(body, exprStatement(runtimeCall("template_effect", arrow(update))))
	}
	if closeStmt != nil {
		body = append(body, closeStmt)
	}
	return body
}

func singleRegularElement(trimmed []ast.FragmentNode) *ast.Element {
	if len(trimmed) != 1 {
		return nil
	}
	element, ok := trimmed[0].(*ast.Element)
	if !ok || element.Kind != ast.RegularElement {
		return nil
	}
	return element
}

// lowerSingleElement hoists a template function for the element and
// emits `var <id> = <template_fn>()`, then lowers the child fragment
// against it.
func (t *Transformer) lowerSingleElement(element *ast.Element) []jsast.Statement {
	hint := strcase.ToSnake(strings.ReplaceAll(element.Name, "-", "_"))
	id := t.analysis.Generate(hint, t.currentScope)
	templateFn := t.analysis.Unique("root")

	raw := element.Span().Text(t.source)
	t.hoisted = append(t.hoisted,
		varDeclaration(templateFn, runtimeCall("template", stringLiteral(raw))))

	body := []jsast.Statement{
		varDeclaration(id, &jsast.CallExpression{Callee: identifier(templateFn)}),
	}
	if element.Fragment != nil {
		body = append(body, t.visitFragmentIn(element.Fragment,
			fragmentParent{kind: "element", name: element.Name})...)
	}
	body = append(body, exprStatement(
		runtimeCall("append", identifier("$$anchor"), identifier(id))))
	return body
}

// refersToState reports whether the expression's referent is a State
// binding — the condition for emitting a $.set_text update.
func (t *Transformer) refersToState(expr jsast.Expression) bool {
	switch e := expr.(type) {
	case *jsast.CallExpression:
		// already rewritten to $.get(x)
		if member, ok := e.Callee.(*jsast.MemberExpression); ok {
			if obj, ok := member.Object.(*jsast.Identifier); ok && obj.Name == "$" {
				if prop, ok := member.Property.(*jsast.Identifier); ok && prop.Name == "get" {
					return true
				}
			}
		}
	case *jsast.Identifier:
		if binding, ok := t.findBinding(e.Name); ok {
			return binding.Kind == analyzer.BindingState
		}
	}
	return false
}

// rewriteFragment applies the expression rewrites to every embedded
// expression reachable from the fragment, in place, entering each
// fragment's scope so shadowed names resolve the way the analyzer saw
// them. Lowering runs after this single pass, so no expression is
// rewritten twice.
func (t *Transformer) rewriteFragment(fragment *ast.Fragment) {
	if fragment == nil {
		return
	}
	prev := t.enterScope(analyzer.ScopeId(fragment.ScopeId))
	for _, node := range fragment.Nodes {
		t.rewriteTemplateNode(node)
	}
	t.currentScope = prev
}

func (t *Transformer) rewriteTemplateNode(node ast.FragmentNode) {
	switch n := node.(type) {
	case *ast.ExpressionTag:
		n.Expression = t.visitExpression(n.Expression)
	case *ast.HtmlTag:
		n.Expression = t.visitExpression(n.Expression)
	case *ast.RenderTag:
		n.Expression = t.visitExpression(n.Expression)
	case *ast.ConstTag:
		if n.Declaration != nil && n.Declaration.Init != nil {
			n.Declaration.Init = t.visitExpression(n.Declaration.Init)
		}
	case *ast.Element:
		for i := range n.Attributes {
			t.rewriteAttribute(&n.Attributes[i])
		}
		t.rewriteFragment(n.Fragment)
	case *ast.IfBlock:
		n.Test = t.visitExpression(n.Test)
		t.rewriteFragment(n.Consequent)
		t.rewriteFragment(n.Alternate)
	case *ast.EachBlock:
		n.Expression = t.visitExpression(n.Expression)
		if n.Key != nil && n.Body != nil {
			prev := t.enterScope(analyzer.ScopeId(n.Body.ScopeId))
			n.Key = t.visitExpression(n.Key)
			t.currentScope = prev
		}
		t.rewriteFragment(n.Body)
		t.rewriteFragment(n.Fallback)
	case *ast.KeyBlock:
		n.Expression = t.visitExpression(n.Expression)
		t.rewriteFragment(n.Body)
	case *ast.AwaitBlock:
		n.Expression = t.visitExpression(n.Expression)
		t.rewriteFragment(n.Pending)
		t.rewriteFragment(n.Then)
		t.rewriteFragment(n.Catch)
	case *ast.SnippetBlock:
		t.rewriteFragment(n.Body)
	}
}

func (t *Transformer) rewriteAttribute(attr *ast.Attribute) {
	switch {
	case attr.Kind == ast.SpreadAttribute:
		attr.SpreadExpr = t.visitExpression(attr.SpreadExpr)
	case attr.Kind.IsDirective():
		// bind: needs the raw identifier for two-way wiring; reads are
		// not rewritten through it
		if attr.Expression != nil && attr.Kind != ast.BindDirective {
			attr.Expression = t.visitExpression(attr.Expression)
		}
	default:
		t.rewriteAttributeValue(&attr.Value)
	}
}

func (t *Transformer) rewriteAttributeValue(value *ast.AttributeValue) {
	switch value.Kind {
	case ast.ValueExpressionTag:
		if value.Expr != nil {
			value.Expr.Expression = t.visitExpression(value.Expr.Expression)
		}
	case ast.ValueQuoted:
		for _, part := range value.Parts {
			if part.Expr != nil {
				part.Expr.Expression = t.visitExpression(part.Expr.Expression)
			}
		}
	}
}
