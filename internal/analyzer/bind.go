package analyzer

import (
	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/loc"
)

// runeNames are the compiler-provided runes; a `$`-prefixed identifier
// that is one of these is never a store subscription.
var runeNames = map[string]bool{
	"$state": true, "$derived": true, "$effect": true, "$props": true,
	"$bindable": true, "$inspect": true, "$host": true,
}

func isRuneName(name string) bool {
	if runeNames[name] {
		return true
	}
	// member forms like $state.raw, $derived.by arrive as bare
	// identifiers only up to the dot, so the map covers them
	return false
}

func lociEmpty() loc.Span { return loc.Span{} }

// bindDeclarator classifies a variable declarator's names (§4.I): a
// `$state(...)` initializer makes them State, `$state.raw` RawState,
// `$derived`/`$derived.by` Derived, `$props()` Prop (with `$bindable`
// defaults as BindableProp and rests as RestProp), a declarator under a
// `{@const}` tag Template, everything else Normal.
func (b *scopeBuilder) bindDeclarator(decl *jsast.VariableDeclarator) {
	declKind := b.declKind()

	if name, ok := runeCallName(decl.Init); ok {
		switch name {
		case "$state":
			b.declarePattern(decl.Id, BindingState, declKind)
			return
		case "$state.raw":
			b.declarePattern(decl.Id, BindingRawState, declKind)
			return
		case "$derived", "$derived.by":
			b.declarePattern(decl.Id, BindingDerived, declKind)
			return
		case "$props":
			b.bindPropsPattern(decl.Id, declKind)
			return
		}
	}

	kind := BindingNormal
	if b.insideConstTag() {
		kind = BindingTemplate
	}
	b.declarePattern(decl.Id, kind, declKind)
}

// insideConstTag answers the parent-chain question "is this declarator
// inside a {@const} tag?" via the AST node table.
func (b *scopeBuilder) insideConstTag() bool {
	found := false
	b.analysis.ParentChain(b.currentNode, func(info NodeInfo) bool {
		if info.Kind == "ConstTag" {
			found = true
			return false
		}
		return true
	})
	return found
}

// runeCallName returns the dotted callee of a rune call initializer.
func runeCallName(init jsast.Expression) (string, bool) {
	call, ok := init.(*jsast.CallExpression)
	if !ok {
		return "", false
	}
	switch callee := call.Callee.(type) {
	case *jsast.Identifier:
		if runeNames[callee.Name] {
			return callee.Name, true
		}
	case *jsast.MemberExpression:
		obj, okObj := callee.Object.(*jsast.Identifier)
		prop, okProp := callee.Property.(*jsast.Identifier)
		if okObj && okProp && !callee.Computed && runeNames[obj.Name] {
			return obj.Name + "." + prop.Name, true
		}
	}
	return "", false
}

// bindPropsPattern binds a `let { a, b = $bindable(0), ...rest } = $props()`
// destructuring: plain properties are Prop, `$bindable` defaults are
// BindableProp, the rest element is RestProp.
func (b *scopeBuilder) bindPropsPattern(pattern jsast.Pattern, declKind DeclarationKind) {
	obj, ok := pattern.(*jsast.ObjectPattern)
	if !ok {
		// a non-destructured `let props = $props()` is a single Prop
		b.declarePattern(pattern, BindingProp, declKind)
		return
	}
	for _, prop := range obj.Properties {
		switch value := prop.Value.(type) {
		case *jsast.RestElement:
			b.declarePattern(value.Argument, BindingRestProp, declKind)
		case *jsast.AssignmentPattern:
			kind := BindingProp
			if name, isRune := runeCallName(value.Right); isRune && name == "$bindable" {
				kind = BindingBindableProp
			}
			b.declarePattern(value.Left, kind, declKind)
		default:
			b.declarePattern(value, BindingProp, declKind)
		}
	}
}

// eachAssignmentTarget walks an assignment or update target through
// member/computed chains, array and object destructuring (both the
// pattern and the expression spellings a left-hand side parses as), and
// spread elements, invoking fn with the leftmost identifier of each
// write. bare is true for a plain identifier target, false when the
// write goes through any deeper chain.
func eachAssignmentTarget(target jsast.Node, fn func(id *jsast.Identifier, bare bool)) {
	switch node := target.(type) {
	case *jsast.Identifier:
		fn(node, true)
	case *jsast.MemberExpression:
		if id := leftmostObject(node); id != nil {
			fn(id, false)
		}
	case *jsast.ArrayExpression:
		for _, el := range node.Elements {
			if el != nil {
				eachAssignmentTarget(el, fn)
			}
		}
	case *jsast.ObjectExpression:
		for _, prop := range node.Properties {
			eachAssignmentTarget(prop.Value, fn)
		}
	case *jsast.SpreadElement:
		eachAssignmentTarget(node.Argument, fn)
	case *jsast.ArrayPattern:
		for _, el := range node.Elements {
			if el != nil {
				eachAssignmentTarget(el, fn)
			}
		}
	case *jsast.ObjectPattern:
		for _, prop := range node.Properties {
			eachAssignmentTarget(prop.Value, fn)
		}
	case *jsast.AssignmentPattern:
		eachAssignmentTarget(node.Left, fn)
	case *jsast.RestElement:
		eachAssignmentTarget(node.Argument, fn)
	case *jsast.AssignmentExpression:
		// nested default inside expression-position destructuring
		eachAssignmentTarget(node.Left, fn)
	}
}

func leftmostObject(member *jsast.MemberExpression) *jsast.Identifier {
	obj := member.Object
	for {
		switch o := obj.(type) {
		case *jsast.Identifier:
			return o
		case *jsast.MemberExpression:
			obj = o.Object
		case *jsast.CallExpression:
			obj = o.Callee
		default:
			return nil
		}
	}
}

// collectAssignmentTargets walks an arbitrary statement subtree and
// reports every assignment/update target in it; used by the `$:`
// reactive-statement rule.
func collectAssignmentTargets(stmt jsast.Node, fn func(id *jsast.Identifier, bare bool)) {
	jsast.Walk(stmt, &assignmentCollector{fn: fn})
}

type assignmentCollector struct {
	noopVisitor
	fn func(id *jsast.Identifier, bare bool)
}

func (c *assignmentCollector) VisitAssignmentExpression(expr *jsast.AssignmentExpression) {
	eachAssignmentTarget(expr.Left, c.fn)
}

func (c *assignmentCollector) VisitUpdateExpression(expr *jsast.UpdateExpression) {
	eachAssignmentTarget(expr.Argument, c.fn)
}

// noopVisitor satisfies jsast.Visitor with empty hooks so small
// special-purpose collectors only override what they need.
type noopVisitor struct{}

func (noopVisitor) EnterNode(jsast.Node)                                        {}
func (noopVisitor) LeaveNode(jsast.Node)                                        {}
func (noopVisitor) EnterScope(jsast.Node)                                       {}
func (noopVisitor) LeaveScope(jsast.Node)                                       {}
func (noopVisitor) VisitIdentifierReference(*jsast.Identifier)                  {}
func (noopVisitor) VisitBindingPattern(jsast.Pattern, jsast.Node)               {}
func (noopVisitor) VisitVariableDeclarator(*jsast.VariableDeclarator)           {}
func (noopVisitor) VisitFunctionDeclaration(*jsast.FunctionDeclaration)         {}
func (noopVisitor) VisitFunctionExpression(*jsast.FunctionExpression)           {}
func (noopVisitor) VisitArrowFunctionExpression(*jsast.ArrowFunctionExpression) {}
func (noopVisitor) VisitImportSpecifier(*jsast.ImportSpecifier)                 {}
func (noopVisitor) VisitClassDeclaration(*jsast.ClassDeclaration)               {}
func (noopVisitor) VisitCatchClause(*jsast.CatchClause)                         {}
func (noopVisitor) VisitAssignmentExpression(*jsast.AssignmentExpression)       {}
func (noopVisitor) VisitUpdateExpression(*jsast.UpdateExpression)               {}
func (noopVisitor) VisitLabeledStatement(*jsast.LabeledStatement)               {}
