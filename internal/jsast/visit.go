package jsast

// Visitor is the external program visitor contract described in §6: a
// capability set of enter/leave hooks plus per-kind callbacks, expressed
// as a Go interface rather than a trait object. The analyzer implements
// this interface; Walk drives it over a Program.
//
// Scope-introducing nodes call EnterScope before descending into their
// body and LeaveScope after. Whether the scope is porous is a property
// the implementation decides from the node kind it receives (functions
// and the program root are non-porous; block/for/for-in/for-of/switch/
// catch are porous), matching the analyzer's own two-pass design rather
// than being baked into the walker.
type Visitor interface {
	EnterNode(n Node)
	LeaveNode(n Node)
	EnterScope(n Node)
	LeaveScope(n Node)

	VisitIdentifierReference(id *Identifier)
	// VisitBindingPattern is called for parameter and catch-clause
	// binding positions, inside the scope the names bind into; owner is
	// the function or catch clause that introduced them.
	VisitBindingPattern(p Pattern, owner Node)
	VisitVariableDeclarator(decl *VariableDeclarator)
	VisitFunctionDeclaration(fn *FunctionDeclaration)
	VisitFunctionExpression(fn *FunctionExpression)
	VisitArrowFunctionExpression(fn *ArrowFunctionExpression)
	VisitImportSpecifier(spec *ImportSpecifier)
	VisitClassDeclaration(decl *ClassDeclaration)
	VisitCatchClause(clause *CatchClause)
	VisitAssignmentExpression(expr *AssignmentExpression)
	VisitUpdateExpression(expr *UpdateExpression)
	VisitLabeledStatement(stmt *LabeledStatement)
}

// Walk drives a depth-first pre-order traversal of n, invoking the
// relevant Visitor callbacks. It is the default walker every concrete
// node kind gets per §4.H ("default walk_* performs a depth-first
// pre-order traversal").
func Walk(n Node, v Visitor) {
	if n == nil {
		return
	}
	v.EnterNode(n)
	switch node := n.(type) {
	case *Program:
		v.EnterScope(node)
		walkStatements(node.Body, v)
		v.LeaveScope(node)

	case *Identifier:
		v.VisitIdentifierReference(node)

	case *Literal, *Raw:
		// leaves

	case *CallExpression:
		Walk(node.Callee, v)
		for _, a := range node.Arguments {
			Walk(a, v)
		}

	case *MemberExpression:
		Walk(node.Object, v)
		if node.Computed {
			Walk(node.Property, v)
		}

	case *AssignmentExpression:
		Walk(node.Left, v)
		Walk(node.Right, v)
		v.VisitAssignmentExpression(node)

	case *UpdateExpression:
		Walk(node.Argument, v)
		v.VisitUpdateExpression(node)

	case *BinaryExpression:
		Walk(node.Left, v)
		Walk(node.Right, v)

	case *LogicalExpression:
		Walk(node.Left, v)
		Walk(node.Right, v)

	case *UnaryExpression:
		Walk(node.Argument, v)

	case *ConditionalExpression:
		Walk(node.Test, v)
		Walk(node.Consequent, v)
		Walk(node.Alternate, v)

	case *ArrayExpression:
		for _, e := range node.Elements {
			Walk(e, v)
		}

	case *ObjectExpression:
		for _, p := range node.Properties {
			if p.Computed {
				Walk(p.Key, v)
			}
			Walk(p.Value, v)
		}

	case *SpreadElement:
		Walk(node.Argument, v)

	case *SequenceExpression:
		for _, e := range node.Expressions {
			Walk(e, v)
		}

	case *ArrowFunctionExpression:
		// An arrow expression's own parameters live in the new scope
		// (a function declaration's own name, by contrast, binds in the
		// enclosing scope).
		v.EnterScope(node)
		for _, p := range node.Params {
			v.VisitBindingPattern(p, node)
			walkPattern(p, v)
		}
		if node.Body != nil {
			Walk(node.Body, v)
		}
		v.LeaveScope(node)
		v.VisitArrowFunctionExpression(node)

	case *FunctionExpression:
		v.EnterScope(node)
		if node.Id != nil {
			walkPattern(node.Id, v)
		}
		for _, p := range node.Params {
			v.VisitBindingPattern(p, node)
			walkPattern(p, v)
		}
		if node.Body != nil {
			Walk(node.Body, v)
		}
		v.LeaveScope(node)
		v.VisitFunctionExpression(node)

	case *ObjectPattern:
		for _, p := range node.Properties {
			if p.Computed {
				Walk(p.Key, v)
			}
			walkPattern(p.Value, v)
		}

	case *ArrayPattern:
		for _, p := range node.Elements {
			walkPattern(p, v)
		}

	case *AssignmentPattern:
		walkPattern(node.Left, v)
		Walk(node.Right, v)

	case *RestElement:
		walkPattern(node.Argument, v)

	case *ExpressionStatement:
		Walk(node.Expression, v)

	case *BlockStatement:
		v.EnterScope(node)
		walkStatements(node.Body, v)
		v.LeaveScope(node)

	case *EmptyStatement:
		// leaf

	case *VariableDeclaration:
		for _, d := range node.Declarations {
			walkPattern(d.Id, v)
			if d.Init != nil {
				Walk(d.Init, v)
			}
			v.VisitVariableDeclarator(d)
		}

	case *FunctionDeclaration:
		// Params and body are walked in the function's own scope; the
		// declaration's name binds in the enclosing scope, since
		// VisitFunctionDeclaration runs after LeaveScope.
		if node.Id != nil {
			walkPattern(node.Id, v)
		}
		v.EnterScope(node)
		for _, p := range node.Params {
			v.VisitBindingPattern(p, node)
			walkPattern(p, v)
		}
		if node.Body != nil {
			Walk(node.Body, v)
		}
		v.LeaveScope(node)
		v.VisitFunctionDeclaration(node)

	case *ClassDeclaration:
		if node.Id != nil {
			walkPattern(node.Id, v)
		}
		v.VisitClassDeclaration(node)

	case *ReturnStatement:
		if node.Argument != nil {
			Walk(node.Argument, v)
		}

	case *IfStatement:
		Walk(node.Test, v)
		Walk(node.Consequent, v)
		if node.Alternate != nil {
			Walk(node.Alternate, v)
		}

	case *ForStatement:
		v.EnterScope(node)
		if node.Init != nil {
			Walk(node.Init, v)
		}
		if node.Test != nil {
			Walk(node.Test, v)
		}
		if node.Update != nil {
			Walk(node.Update, v)
		}
		Walk(node.Body, v)
		v.LeaveScope(node)

	case *ForInStatement:
		v.EnterScope(node)
		Walk(node.Left, v)
		Walk(node.Right, v)
		Walk(node.Body, v)
		v.LeaveScope(node)

	case *ForOfStatement:
		v.EnterScope(node)
		Walk(node.Left, v)
		Walk(node.Right, v)
		Walk(node.Body, v)
		v.LeaveScope(node)

	case *WhileStatement:
		Walk(node.Test, v)
		Walk(node.Body, v)

	case *DoWhileStatement:
		Walk(node.Body, v)
		Walk(node.Test, v)

	case *SwitchStatement:
		v.EnterScope(node)
		Walk(node.Discriminant, v)
		for _, c := range node.Cases {
			if c.Test != nil {
				Walk(c.Test, v)
			}
			walkStatements(c.Consequent, v)
		}
		v.LeaveScope(node)

	case *TryStatement:
		Walk(node.Block, v)
		if node.Handler != nil {
			v.EnterScope(node.Handler)
			if node.Handler.Param != nil {
				v.VisitBindingPattern(node.Handler.Param, node.Handler)
				walkPattern(node.Handler.Param, v)
			}
			walkStatements(node.Handler.Body.Body, v)
			v.LeaveScope(node.Handler)
			v.VisitCatchClause(node.Handler)
		}
		if node.Finalizer != nil {
			Walk(node.Finalizer, v)
		}

	case *ThrowStatement:
		Walk(node.Argument, v)

	case *BreakStatement, *ContinueStatement:
		// leaves; labels are not references

	case *LabeledStatement:
		Walk(node.Body, v)
		v.VisitLabeledStatement(node)

	case *ExportDefaultDeclaration:
		Walk(node.Declaration, v)

	case *ImportDeclaration:
		for _, spec := range node.Specifiers {
			v.VisitImportSpecifier(spec)
		}
	}
	v.LeaveNode(n)
}

func walkStatements(stmts []Statement, v Visitor) {
	for _, s := range stmts {
		Walk(s, v)
	}
}

// walkPattern walks a binding-position pattern. Identifier patterns are
// not "references" in the analyzer's sense — the caller distinguishes a
// pattern-position identifier from a reference-position one by whether it
// arrived via walkPattern or Walk; the analyzer's VisitIdentifierReference
// is only invoked for the latter. walkPattern still recurses into nested
// expressions (defaults, computed keys) via Walk.
func walkPattern(p Pattern, v Visitor) {
	if p == nil {
		return
	}
	switch node := p.(type) {
	case *Identifier:
		// binding site, not a reference; the caller's
		// VisitVariableDeclarator/VisitFunctionDeclaration/etc. sees the
		// pattern directly and binds it.
	case *ObjectPattern:
		for _, prop := range node.Properties {
			if prop.Computed {
				Walk(prop.Key, v)
			}
			walkPattern(prop.Value, v)
		}
	case *ArrayPattern:
		for _, el := range node.Elements {
			walkPattern(el, v)
		}
	case *AssignmentPattern:
		walkPattern(node.Left, v)
		Walk(node.Right, v)
	case *RestElement:
		walkPattern(node.Argument, v)
	}
}

// BoundNames calls fn once for every identifier bound by pattern,
// depth-first left-to-right. This is the "bound_names(pattern, callback)"
// traversal spec §4.I attributes to the program collaborator.
func BoundNames(pattern Node, fn func(id *Identifier)) {
	switch node := pattern.(type) {
	case *Identifier:
		fn(node)
	case *ObjectPattern:
		for _, p := range node.Properties {
			BoundNames(p.Value, fn)
		}
	case *ArrayPattern:
		for _, el := range node.Elements {
			if el != nil {
				BoundNames(el, fn)
			}
		}
	case *AssignmentPattern:
		BoundNames(node.Left, fn)
	case *RestElement:
		BoundNames(node.Argument, fn)
	}
}

// LeftmostIdentifier walks an assignment/update target through member,
// computed, and pattern chains and returns the leftmost identifier that
// is actually written to, plus whether the write is a bare-identifier
// reassignment (true) or a deeper mutation through a member/pattern chain
// (false). This implements the extraction rule in §4.I used to classify
// Reassigned vs Mutated.
func LeftmostIdentifier(target Node) (ident *Identifier, bare bool) {
	switch node := target.(type) {
	case *Identifier:
		return node, true
	case *MemberExpression:
		id, _ := LeftmostIdentifier(node.Object)
		return id, false
	case *ObjectPattern, *ArrayPattern, *AssignmentPattern, *RestElement:
		var found *Identifier
		BoundNames(node, func(id *Identifier) {
			if found == nil {
				found = id
			}
		})
		return found, false
	}
	return nil, false
}
