// Package printer serializes the AST to JSON for tooling. The field
// order is part of the contract: `type`, then the flattened `start` /
// `end` span, then the node-specific fields in a fixed order per node
// kind (not always the order the Go struct declares them). The
// writer is hand-rolled because no struct-tag encoder pins field order
// across the whole variant set the way an explicit builder does.
package printer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/loc"
)

// node is one ordered JSON object under construction.
type node struct {
	fields []field
}

type field struct {
	name  string
	value any // string | bool | int | *node | []any | rawJSON
}

// rawJSON is a pre-encoded value spliced verbatim.
type rawJSON string

func obj(typ string, span loc.Span) *node {
	n := &node{}
	n.set("type", typ)
	n.set("start", span.Start)
	n.set("end", span.End)
	return n
}

func (n *node) set(name string, value any) *node {
	n.fields = append(n.fields, field{name, value})
	return n
}

// PrintRoot renders the document root as pretty-printed JSON.
func PrintRoot(root *ast.Root) string {
	var sb strings.Builder
	writeValue(&sb, rootNode(root), 0)
	sb.WriteByte('\n')
	return sb.String()
}

func writeValue(sb *strings.Builder, value any, depth int) {
	switch v := value.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case int:
		sb.WriteString(strconv.Itoa(v))
	case string:
		sb.Write(mustJSONString(v))
	case rawJSON:
		sb.WriteString(string(v))
	case *node:
		if v == nil {
			sb.WriteString("null")
			return
		}
		sb.WriteString("{\n")
		for i, f := range v.fields {
			indent(sb, depth+1)
			sb.Write(mustJSONString(f.name))
			sb.WriteString(": ")
			writeValue(sb, f.value, depth+1)
			if i < len(v.fields)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		indent(sb, depth)
		sb.WriteByte('}')
	case []any:
		if len(v) == 0 {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		for i, item := range v {
			indent(sb, depth+1)
			writeValue(sb, item, depth+1)
			if i < len(v)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		indent(sb, depth)
		sb.WriteByte(']')
	default:
		sb.Write(mustJSONString(fmt.Sprintf("%v", v)))
	}
}

// mustJSONString encodes s with JSON string escaping; strconv.Quote is
// not safe here because it emits \x escapes JSON cannot parse.
func mustJSONString(s string) []byte {
	b, err := json.Marshal(s)
	if err != nil {
		return []byte(strconv.Quote(s))
	}
	return b
}

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString("  ")
	}
}

// ---- template nodes --------------------------------------------------------

func rootNode(root *ast.Root) *node {
	n := obj("Root", root.Span())
	if root.Options != nil {
		n.set("options", optionsNode(root.Options))
	}
	n.set("fragment", fragmentNode(root.Fragment))
	if root.CSS != nil {
		n.set("css", styleSheetNode(root.CSS))
	}
	if root.Instance != nil {
		n.set("instance", scriptNode(root.Instance))
	}
	if root.Module != nil {
		n.set("module", scriptNode(root.Module))
	}
	return n
}

func fragmentNode(fragment *ast.Fragment) *node {
	if fragment == nil {
		return nil
	}
	n := obj("Fragment", fragment.Span())
	n.set("nodes", fragmentNodes(fragment.Nodes))
	return n
}

func fragmentNodes(nodes []ast.FragmentNode) []any {
	out := make([]any, 0, len(nodes))
	for _, child := range nodes {
		out = append(out, templateNode(child))
	}
	return out
}

func templateNode(child ast.FragmentNode) *node {
	switch c := child.(type) {
	case *ast.Text:
		return obj("Text", c.Span()).set("raw", c.Raw).set("data", c.Data)
	case *ast.Comment:
		return obj("Comment", c.Span()).set("data", c.Data)
	case *ast.Element:
		return elementNode(c)
	case *ast.ExpressionTag:
		return obj("ExpressionTag", c.Span()).set("expression", exprNode(c.Expression))
	case *ast.HtmlTag:
		return obj("HtmlTag", c.Span()).set("expression", exprNode(c.Expression))
	case *ast.DebugTag:
		ids := make([]any, 0, len(c.Identifiers))
		for _, id := range c.Identifiers {
			ids = append(ids, exprNode(id))
		}
		return obj("DebugTag", c.Span()).set("identifiers", ids)
	case *ast.ConstTag:
		return obj("ConstTag", c.Span()).set("declaration", declaratorNode(c.Declaration))
	case *ast.RenderTag:
		return obj("RenderTag", c.Span()).set("expression", exprNode(c.Expression))
	case *ast.IfBlock:
		n := obj("IfBlock", c.Span())
		n.set("elseif", c.Elseif)
		n.set("test", exprNode(c.Test))
		n.set("consequent", fragmentNode(c.Consequent))
		if c.Alternate != nil {
			n.set("alternate", fragmentNode(c.Alternate))
		}
		return n
	case *ast.EachBlock:
		n := obj("EachBlock", c.Span())
		n.set("expression", exprNode(c.Expression))
		n.set("context", patternNode(c.Context))
		if c.Index != nil {
			n.set("index", exprNode(c.Index))
		}
		if c.Key != nil {
			n.set("key", exprNode(c.Key))
		}
		n.set("body", fragmentNode(c.Body))
		if c.Fallback != nil {
			n.set("fallback", fragmentNode(c.Fallback))
		}
		return n
	case *ast.AwaitBlock:
		n := obj("AwaitBlock", c.Span())
		n.set("expression", exprNode(c.Expression))
		if c.Pending != nil {
			n.set("pending", fragmentNode(c.Pending))
		}
		if c.Value != nil {
			n.set("value", patternNode(c.Value))
		}
		if c.Then != nil {
			n.set("then", fragmentNode(c.Then))
		}
		if c.Error != nil {
			n.set("error", patternNode(c.Error))
		}
		if c.Catch != nil {
			n.set("catch", fragmentNode(c.Catch))
		}
		return n
	case *ast.KeyBlock:
		return obj("KeyBlock", c.Span()).
			set("expression", exprNode(c.Expression)).
			set("body", fragmentNode(c.Body))
	case *ast.SnippetBlock:
		n := obj("SnippetBlock", c.Span())
		n.set("name", exprNode(c.Name))
		params := make([]any, 0, len(c.Params))
		for _, p := range c.Params {
			params = append(params, patternNode(p))
		}
		n.set("parameters", params)
		n.set("body", fragmentNode(c.Body))
		return n
	}
	return obj("Unknown", child.Span())
}

var elementKindNames = map[ast.ElementKind]string{
	ast.RegularElement:       "RegularElement",
	ast.SvelteHead:           "SvelteHead",
	ast.SvelteOptionsElement: "SvelteOptions",
	ast.SvelteWindow:         "SvelteWindow",
	ast.SvelteDocument:       "SvelteDocument",
	ast.SvelteBody:           "SvelteBody",
	ast.SvelteElement:        "SvelteElement",
	ast.SvelteComponent:      "SvelteComponent",
	ast.SvelteSelf:           "SvelteSelf",
	ast.SvelteFragment:       "SvelteFragment",
	ast.TitleElement:         "TitleElement",
	ast.SlotElement:          "SlotElement",
	ast.Component:            "Component",
}

func elementNode(element *ast.Element) *node {
	n := obj(elementKindNames[element.Kind], element.Span())
	n.set("name", element.Name)
	n.set("attributes", attributeNodes(element.Attributes))
	n.set("fragment", fragmentNode(element.Fragment))
	return n
}

func attributeNodes(attrs []ast.Attribute) []any {
	out := make([]any, 0, len(attrs))
	for i := range attrs {
		out = append(out, attributeNode(&attrs[i]))
	}
	return out
}

var directiveTypeNames = map[ast.AttributeKind]string{
	ast.AnimateDirective:    "AnimateDirective",
	ast.BindDirective:       "BindDirective",
	ast.ClassDirective:      "ClassDirective",
	ast.LetDirective:        "LetDirective",
	ast.OnDirective:         "OnDirective",
	ast.StyleDirective:      "StyleDirective",
	ast.TransitionDirective: "TransitionDirective",
	ast.UseDirective:        "UseDirective",
}

func attributeNode(attr *ast.Attribute) *node {
	switch {
	case attr.Kind == ast.SpreadAttribute:
		return obj("SpreadAttribute", attr.Span()).set("expression", exprNode(attr.SpreadExpr))
	case attr.Kind.IsDirective():
		n := obj(directiveTypeNames[attr.Kind], attr.Span())
		n.set("name", attr.Name)
		modifiers := make([]any, 0, len(attr.Modifiers))
		for _, m := range attr.Modifiers {
			modifiers = append(modifiers, m)
		}
		n.set("modifiers", modifiers)
		if attr.Kind == ast.StyleDirective {
			n.set("value", attributeValue(attr.Value))
		} else if attr.Expression != nil {
			n.set("expression", exprNode(attr.Expression))
		}
		if attr.Kind == ast.TransitionDirective {
			n.set("intro", attr.Intro)
			n.set("outro", attr.Outro)
		}
		return n
	default:
		return obj("NormalAttribute", attr.Span()).
			set("name", attr.Name).
			set("value", attributeValue(attr.Value))
	}
}

// attributeValue follows the unit-variant rule: a bare boolean presence
// serializes as the boolean true, not as an object.
func attributeValue(value ast.AttributeValue) any {
	switch value.Kind {
	case ast.ValueTrue:
		return true
	case ast.ValueExpressionTag:
		return templateNode(value.Expr)
	default:
		parts := make([]any, 0, len(value.Parts))
		for _, part := range value.Parts {
			if part.Text != nil {
				parts = append(parts, templateNode(part.Text))
			} else {
				parts = append(parts, templateNode(part.Expr))
			}
		}
		return parts
	}
}

func scriptNode(script *ast.Script) *node {
	n := obj("Script", script.Span())
	n.set("context", script.Context.String())
	n.set("content", programNode(script.Program))
	n.set("attributes", attributeNodes(script.Attributes))
	if script.LeadingComment != nil {
		n.set("leadingComment", templateNode(script.LeadingComment))
	}
	return n
}

func optionsNode(options *ast.Options) *node {
	n := obj("SvelteOptions", options.Span())
	if options.Runes != nil {
		n.set("runes", *options.Runes)
	}
	switch options.Namespace {
	case ast.NamespaceSVG:
		n.set("namespace", "svg")
	case ast.NamespaceMathML:
		n.set("namespace", "mathml")
	default:
		n.set("namespace", "html")
	}
	if options.CustomElement != nil {
		ce := &node{}
		ce.set("tag", options.CustomElement.Tag)
		if options.CustomElement.Props != nil {
			ce.set("props", exprNode(options.CustomElement.Props))
		}
		switch options.CustomElement.Shadow {
		case ast.ShadowOpen:
			ce.set("shadow", "open")
		case ast.ShadowNone:
			ce.set("shadow", "none")
		}
		if options.CustomElement.Extend != nil {
			ce.set("extend", exprNode(options.CustomElement.Extend))
		}
		n.set("customElement", ce)
	}
	if options.Immutable != nil {
		n.set("immutable", *options.Immutable)
	}
	if options.PreserveWhitespace != nil {
		n.set("preserveWhitespace", *options.PreserveWhitespace)
	}
	if options.Accessors != nil {
		n.set("accessors", *options.Accessors)
	}
	return n
}

// ---- style sheet -----------------------------------------------------------

func styleSheetNode(css *ast.StyleSheet) *node {
	n := obj("StyleSheet", css.Span())
	n.set("attributes", attributeNodes(css.Attributes))
	children := make([]any, 0, len(css.Children))
	for _, child := range css.Children {
		children = append(children, cssChildNode(child))
	}
	n.set("children", children)
	content := &node{}
	content.set("start", css.Content.Span().Start)
	content.set("end", css.Content.Span().End)
	content.set("styles", css.Content.Styles)
	n.set("content", content)
	return n
}

func cssChildNode(child ast.Node) *node {
	switch c := child.(type) {
	case *ast.Rule:
		return obj("Rule", c.Span()).
			set("prelude", selectorListNode(c.Prelude)).
			set("block", cssBlockNode(c.Block))
	case *ast.AtRule:
		n := obj("AtRule", c.Span())
		n.set("name", c.Name)
		n.set("prelude", c.Prelude)
		if c.Block != nil {
			n.set("block", cssBlockNode(c.Block))
		}
		return n
	case *ast.Declaration:
		return obj("Declaration", c.Span()).
			set("property", c.Property).
			set("value", c.Value)
	}
	return obj("Unknown", child.Span())
}

func cssBlockNode(block *ast.CSSBlock) *node {
	if block == nil {
		return nil
	}
	n := obj("Block", block.Span())
	children := make([]any, 0, len(block.Children))
	for _, child := range block.Children {
		children = append(children, cssChildNode(child))
	}
	n.set("children", children)
	return n
}

func selectorListNode(list *ast.SelectorList) *node {
	if list == nil {
		return nil
	}
	n := obj("SelectorList", list.Span())
	children := make([]any, 0, len(list.Children))
	for _, complex := range list.Children {
		children = append(children, complexSelectorNode(complex))
	}
	n.set("children", children)
	return n
}

func complexSelectorNode(complex *ast.ComplexSelector) *node {
	n := obj("ComplexSelector", complex.Span())
	children := make([]any, 0, len(complex.Children))
	for _, rel := range complex.Children {
		children = append(children, relativeSelectorNode(rel))
	}
	n.set("children", children)
	return n
}

func relativeSelectorNode(rel *ast.RelativeSelector) *node {
	n := obj("RelativeSelector", rel.Span())
	if rel.Combinator != nil {
		n.set("combinator", obj("Combinator", rel.Combinator.Span()).set("name", rel.Combinator.Name))
	}
	selectors := make([]any, 0, len(rel.Selectors))
	for _, sel := range rel.Selectors {
		selectors = append(selectors, simpleSelectorNode(sel))
	}
	n.set("selectors", selectors)
	return n
}

func simpleSelectorNode(sel ast.SimpleSelector) *node {
	switch s := sel.(type) {
	case *ast.TypeSelector:
		return obj("TypeSelector", s.Span()).set("name", s.Name)
	case *ast.IdSelector:
		return obj("IdSelector", s.Span()).set("name", s.Name)
	case *ast.ClassSelector:
		return obj("ClassSelector", s.Span()).set("name", s.Name)
	case *ast.AttributeSelector:
		n := obj("AttributeSelector", s.Span())
		n.set("name", s.Name)
		if s.Matcher != "" {
			n.set("matcher", s.Matcher)
		}
		if s.Value != "" {
			n.set("value", s.Value)
		}
		if s.Flags != "" {
			n.set("flags", s.Flags)
		}
		return n
	case *ast.PseudoElementSelector:
		return obj("PseudoElementSelector", s.Span()).set("name", s.Name)
	case *ast.PseudoClassSelector:
		n := obj("PseudoClassSelector", s.Span()).set("name", s.Name)
		if s.Args != nil {
			n.set("args", selectorListNode(s.Args))
		}
		return n
	case *ast.Percentage:
		return obj("Percentage", s.Span()).set("value", s.Value)
	case *ast.Nth:
		return obj("Nth", s.Span()).set("value", s.Value)
	case *ast.NestingSelector:
		return obj("NestingSelector", s.Span()).set("name", s.Name)
	}
	return obj("Unknown", sel.Span())
}

// ---- embedded program ------------------------------------------------------

// PrintProgram renders a transformed program as pretty-printed JSON.
func PrintProgram(program *jsast.Program) string {
	var sb strings.Builder
	writeValue(&sb, programNode(program), 0)
	sb.WriteByte('\n')
	return sb.String()
}

func programNode(program *jsast.Program) *node {
	if program == nil {
		return nil
	}
	n := obj("Program", program.Span())
	n.set("body", stmtNodes(program.Body))
	return n
}

func stmtNodes(stmts []jsast.Statement) []any {
	out := make([]any, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, stmtNode(stmt))
	}
	return out
}

func stmtNode(stmt jsast.Statement) *node {
	switch s := stmt.(type) {
	case *jsast.ExpressionStatement:
		return obj("ExpressionStatement", s.Span()).set("expression", exprNode(s.Expression))
	case *jsast.VariableDeclaration:
		decls := make([]any, 0, len(s.Declarations))
		for _, d := range s.Declarations {
			decls = append(decls, declaratorNode(d))
		}
		return obj("VariableDeclaration", s.Span()).
			set("kind", s.Kind).
			set("declarations", decls)
	case *jsast.FunctionDeclaration:
		n := obj("FunctionDeclaration", s.Span())
		n.set("id", exprNode(s.Id))
		n.set("params", patternNodes(s.Params))
		n.set("body", stmtNode(s.Body))
		return n
	case *jsast.BlockStatement:
		return obj("BlockStatement", s.Span()).set("body", stmtNodes(s.Body))
	case *jsast.EmptyStatement:
		return obj("EmptyStatement", s.Span())
	case *jsast.ReturnStatement:
		n := obj("ReturnStatement", s.Span())
		if s.Argument != nil {
			n.set("argument", exprNode(s.Argument))
		}
		return n
	case *jsast.IfStatement:
		n := obj("IfStatement", s.Span())
		n.set("test", exprNode(s.Test))
		n.set("consequent", stmtNode(s.Consequent))
		if s.Alternate != nil {
			n.set("alternate", stmtNode(s.Alternate))
		}
		return n
	case *jsast.LabeledStatement:
		return obj("LabeledStatement", s.Span()).
			set("label", exprNode(s.Label)).
			set("body", stmtNode(s.Body))
	case *jsast.ImportDeclaration:
		n := obj("ImportDeclaration", s.Span())
		specs := make([]any, 0, len(s.Specifiers))
		for _, spec := range s.Specifiers {
			specs = append(specs, importSpecifierNode(spec))
		}
		n.set("specifiers", specs)
		n.set("source", s.Source)
		return n
	case *jsast.ExportDefaultDeclaration:
		n := obj("ExportDefaultDeclaration", s.Span())
		switch decl := s.Declaration.(type) {
		case jsast.Statement:
			n.set("declaration", stmtNode(decl))
		case jsast.Expression:
			n.set("declaration", exprNode(decl))
		}
		return n
	case *jsast.Raw:
		return obj("Raw", s.Span()).set("value", s.RawText)
	}
	return obj("Statement", stmt.Span())
}

func importSpecifierNode(spec *jsast.ImportSpecifier) *node {
	kind := "default"
	switch spec.Kind {
	case jsast.ImportNamed:
		kind = "named"
	case jsast.ImportNamespace:
		kind = "namespace"
	}
	n := obj("ImportSpecifier", spec.Span())
	n.set("kind", kind)
	n.set("local", exprNode(spec.Local))
	if spec.Imported != nil {
		n.set("imported", exprNode(spec.Imported))
	}
	return n
}

func declaratorNode(decl *jsast.VariableDeclarator) *node {
	if decl == nil {
		return nil
	}
	n := obj("VariableDeclarator", decl.Span())
	n.set("id", patternNode(decl.Id))
	if decl.Init != nil {
		n.set("init", exprNode(decl.Init))
	}
	return n
}

func patternNodes(patterns []jsast.Pattern) []any {
	out := make([]any, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, patternNode(p))
	}
	return out
}

func patternNode(p jsast.Pattern) *node {
	switch pat := p.(type) {
	case *jsast.Identifier:
		return obj("Identifier", pat.Span()).set("name", pat.Name)
	case *jsast.ObjectPattern:
		props := make([]any, 0, len(pat.Properties))
		for _, prop := range pat.Properties {
			pn := obj("Property", prop.Span())
			pn.set("key", exprNode(prop.Key))
			pn.set("value", patternNode(prop.Value))
			pn.set("shorthand", prop.Shorthand)
			props = append(props, pn)
		}
		return obj("ObjectPattern", pat.Span()).set("properties", props)
	case *jsast.ArrayPattern:
		elements := make([]any, 0, len(pat.Elements))
		for _, el := range pat.Elements {
			if el == nil {
				elements = append(elements, nil)
			} else {
				elements = append(elements, patternNode(el))
			}
		}
		return obj("ArrayPattern", pat.Span()).set("elements", elements)
	case *jsast.AssignmentPattern:
		return obj("AssignmentPattern", pat.Span()).
			set("left", patternNode(pat.Left)).
			set("right", exprNode(pat.Right))
	case *jsast.RestElement:
		return obj("RestElement", pat.Span()).set("argument", patternNode(pat.Argument))
	case *jsast.Raw:
		return obj("Raw", pat.Span()).set("value", pat.RawText)
	}
	if p == nil {
		return nil
	}
	return obj("Pattern", p.Span())
}

func exprNodes(exprs []jsast.Expression) []any {
	out := make([]any, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, exprNode(e))
	}
	return out
}

func exprNode(e jsast.Expression) *node {
	switch expr := e.(type) {
	case *jsast.Identifier:
		return obj("Identifier", expr.Span()).set("name", expr.Name)
	case *jsast.Literal:
		return obj("Literal", expr.Span()).set("raw", expr.Raw)
	case *jsast.CallExpression:
		n := obj("CallExpression", expr.Span())
		n.set("callee", exprNode(expr.Callee))
		n.set("arguments", exprNodes(expr.Arguments))
		n.set("optional", expr.Optional)
		return n
	case *jsast.MemberExpression:
		n := obj("MemberExpression", expr.Span())
		n.set("object", exprNode(expr.Object))
		n.set("property", exprNode(expr.Property))
		n.set("computed", expr.Computed)
		return n
	case *jsast.AssignmentExpression:
		return obj("AssignmentExpression", expr.Span()).
			set("operator", expr.Operator).
			set("left", exprNode(expr.Left)).
			set("right", exprNode(expr.Right))
	case *jsast.UpdateExpression:
		return obj("UpdateExpression", expr.Span()).
			set("operator", expr.Operator).
			set("prefix", expr.Prefix).
			set("argument", exprNode(expr.Argument))
	case *jsast.BinaryExpression:
		return obj("BinaryExpression", expr.Span()).
			set("operator", expr.Operator).
			set("left", exprNode(expr.Left)).
			set("right", exprNode(expr.Right))
	case *jsast.LogicalExpression:
		return obj("LogicalExpression", expr.Span()).
			set("operator", expr.Operator).
			set("left", exprNode(expr.Left)).
			set("right", exprNode(expr.Right))
	case *jsast.UnaryExpression:
		return obj("UnaryExpression", expr.Span()).
			set("operator", expr.Operator).
			set("argument", exprNode(expr.Argument))
	case *jsast.ConditionalExpression:
		return obj("ConditionalExpression", expr.Span()).
			set("test", exprNode(expr.Test)).
			set("consequent", exprNode(expr.Consequent)).
			set("alternate", exprNode(expr.Alternate))
	case *jsast.ArrayExpression:
		return obj("ArrayExpression", expr.Span()).set("elements", exprNodes(expr.Elements))
	case *jsast.ObjectExpression:
		props := make([]any, 0, len(expr.Properties))
		for _, prop := range expr.Properties {
			pn := obj("Property", prop.Span())
			if prop.Spread {
				pn = obj("SpreadProperty", prop.Span())
			} else {
				pn.set("key", exprNode(prop.Key))
			}
			pn.set("value", exprNode(prop.Value))
			props = append(props, pn)
		}
		return obj("ObjectExpression", expr.Span()).set("properties", props)
	case *jsast.SpreadElement:
		return obj("SpreadElement", expr.Span()).set("argument", exprNode(expr.Argument))
	case *jsast.SequenceExpression:
		return obj("SequenceExpression", expr.Span()).set("expressions", exprNodes(expr.Expressions))
	case *jsast.ArrowFunctionExpression:
		n := obj("ArrowFunctionExpression", expr.Span())
		n.set("params", patternNodes(expr.Params))
		switch body := expr.Body.(type) {
		case *jsast.BlockStatement:
			n.set("body", stmtNode(body))
		case jsast.Expression:
			n.set("body", exprNode(body))
		}
		return n
	case *jsast.FunctionExpression:
		n := obj("FunctionExpression", expr.Span())
		if expr.Id != nil {
			n.set("id", exprNode(expr.Id))
		}
		n.set("params", patternNodes(expr.Params))
		if expr.Body != nil {
			n.set("body", stmtNode(expr.Body))
		}
		return n
	case *jsast.Raw:
		return obj("Raw", expr.Span()).set("value", expr.RawText)
	}
	if e == nil {
		return nil
	}
	return obj("Expression", e.Span())
}
