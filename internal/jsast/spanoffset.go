package jsast

import (
	"reflect"

	"github.com/veltra-dev/compiler/internal/loc"
)

// isNilNode reports whether n is nil, including the case where n holds a
// typed nil pointer (e.g. a *Identifier field that was never set) — a
// plain `n == nil` check misses that case because the interface value
// still carries a concrete type.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	if v.Kind() == reflect.Ptr {
		return v.IsNil()
	}
	return false
}

// offsettable is implemented automatically by every concrete node type
// because each embeds base by value; addOffset on base promotes to every
// node's method set.
type offsettable interface {
	addOffset(n int)
}

func (b *base) addOffset(n int) {
	b.SpanVal = b.SpanVal.Offset(n)
}

func (b *base) setSpan(s loc.Span) { b.SpanVal = s }

type spanSettable interface {
	setSpan(s loc.Span)
}

// SetSpan assigns a span to a node the core synthesizes itself (e.g. an
// each-block index identifier, which never passes through the external
// parser).
func SetSpan(n Node, s loc.Span) {
	if o, ok := n.(spanSettable); ok {
		o.setSpan(s)
	}
}

// SpanOffset adds offset to every span in the tree rooted at n, in place.
// This is the operation the core applies exactly once after each call
// into the external program parser, so that spans returned relative to
// the start of an embedded `<script>` body are translated into the
// enclosing file's coordinates (§6, §8 invariant 2).
func SpanOffset(n Node, offset int) {
	applyOffset(n, offset)
}

func applyOffset(n Node, offset int) {
	if isNilNode(n) {
		return
	}
	if o, ok := n.(offsettable); ok {
		o.addOffset(offset)
	}
	switch node := n.(type) {
	case *Program:
		for _, s := range node.Body {
			applyOffset(s, offset)
		}
	case *Identifier, *Literal, *Raw, *EmptyStatement:
		// leaves
	case *CallExpression:
		applyOffset(node.Callee, offset)
		for _, a := range node.Arguments {
			applyOffset(a, offset)
		}
	case *MemberExpression:
		applyOffset(node.Object, offset)
		applyOffset(node.Property, offset)
	case *AssignmentExpression:
		applyOffset(node.Left, offset)
		applyOffset(node.Right, offset)
	case *UpdateExpression:
		applyOffset(node.Argument, offset)
	case *BinaryExpression:
		applyOffset(node.Left, offset)
		applyOffset(node.Right, offset)
	case *LogicalExpression:
		applyOffset(node.Left, offset)
		applyOffset(node.Right, offset)
	case *UnaryExpression:
		applyOffset(node.Argument, offset)
	case *ConditionalExpression:
		applyOffset(node.Test, offset)
		applyOffset(node.Consequent, offset)
		applyOffset(node.Alternate, offset)
	case *ArrayExpression:
		for _, e := range node.Elements {
			applyOffset(e, offset)
		}
	case *ObjectExpression:
		for _, p := range node.Properties {
			p.addOffset(offset)
			// a shorthand property shares one node as Key and Value
			if !p.Shorthand {
				applyOffset(p.Key, offset)
			}
			applyOffset(p.Value, offset)
		}
	case *SpreadElement:
		applyOffset(node.Argument, offset)
	case *SequenceExpression:
		for _, e := range node.Expressions {
			applyOffset(e, offset)
		}
	case *ArrowFunctionExpression:
		for _, p := range node.Params {
			applyOffset(p, offset)
		}
		applyOffset(node.Body, offset)
	case *FunctionExpression:
		applyOffset(node.Id, offset)
		for _, p := range node.Params {
			applyOffset(p, offset)
		}
		applyOffset(node.Body, offset)
	case *ObjectPattern:
		for _, p := range node.Properties {
			p.addOffset(offset)
			if !p.Shorthand {
				applyOffset(p.Key, offset)
			}
			applyOffset(p.Value, offset)
		}
	case *ArrayPattern:
		for _, e := range node.Elements {
			applyOffset(e, offset)
		}
	case *AssignmentPattern:
		applyOffset(node.Left, offset)
		applyOffset(node.Right, offset)
	case *RestElement:
		applyOffset(node.Argument, offset)
	case *ExpressionStatement:
		applyOffset(node.Expression, offset)
	case *BlockStatement:
		for _, s := range node.Body {
			applyOffset(s, offset)
		}
	case *VariableDeclaration:
		for _, d := range node.Declarations {
			applyOffset(d, offset)
		}
	case *VariableDeclarator:
		applyOffset(node.Id, offset)
		applyOffset(node.Init, offset)
	case *FunctionDeclaration:
		applyOffset(node.Id, offset)
		for _, p := range node.Params {
			applyOffset(p, offset)
		}
		applyOffset(node.Body, offset)
	case *ClassDeclaration:
		applyOffset(node.Id, offset)
	case *ReturnStatement:
		applyOffset(node.Argument, offset)
	case *IfStatement:
		applyOffset(node.Test, offset)
		applyOffset(node.Consequent, offset)
		applyOffset(node.Alternate, offset)
	case *ForStatement:
		applyOffset(node.Init, offset)
		applyOffset(node.Test, offset)
		applyOffset(node.Update, offset)
		applyOffset(node.Body, offset)
	case *ForInStatement:
		applyOffset(node.Left, offset)
		applyOffset(node.Right, offset)
		applyOffset(node.Body, offset)
	case *ForOfStatement:
		applyOffset(node.Left, offset)
		applyOffset(node.Right, offset)
		applyOffset(node.Body, offset)
	case *WhileStatement:
		applyOffset(node.Test, offset)
		applyOffset(node.Body, offset)
	case *DoWhileStatement:
		applyOffset(node.Body, offset)
		applyOffset(node.Test, offset)
	case *SwitchStatement:
		applyOffset(node.Discriminant, offset)
		for _, c := range node.Cases {
			c.addOffset(offset)
			applyOffset(c.Test, offset)
			for _, s := range c.Consequent {
				applyOffset(s, offset)
			}
		}
	case *TryStatement:
		applyOffset(node.Block, offset)
		if node.Handler != nil {
			node.Handler.addOffset(offset)
			applyOffset(node.Handler.Param, offset)
			applyOffset(node.Handler.Body, offset)
		}
		applyOffset(node.Finalizer, offset)
	case *ThrowStatement:
		applyOffset(node.Argument, offset)
	case *BreakStatement:
		applyOffset(node.Label, offset)
	case *ContinueStatement:
		applyOffset(node.Label, offset)
	case *LabeledStatement:
		applyOffset(node.Label, offset)
		applyOffset(node.Body, offset)
	case *ExportDefaultDeclaration:
		applyOffset(node.Declaration, offset)
	case *ImportDeclaration:
		for _, s := range node.Specifiers {
			applyOffset(s, offset)
		}
	case *ImportSpecifier:
		applyOffset(node.Local, offset)
		applyOffset(node.Imported, offset)
	}
}
