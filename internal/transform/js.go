package transform

import (
	"github.com/veltra-dev/compiler/internal/analyzer"
	"github.com/veltra-dev/compiler/internal/jsast"
)

// The program half of the mutable visit: expression rewrites and
// statement-list cleanup (§4.J). Statements are visited in place; the
// enclosing list drops empty statements afterwards, preserving order.

func (t *Transformer) visitProgram(p *jsast.Program) {
	prev := t.enterScope(analyzer.ScopeId(p.GetScopeId()))
	p.Body = t.visitStatements(p.Body)
	t.currentScope = prev
}

func (t *Transformer) visitStatements(stmts []jsast.Statement) []jsast.Statement {
	kept := stmts[:0]
	for _, stmt := range stmts {
		t.visitStatement(stmt)
		if _, empty := stmt.(*jsast.EmptyStatement); empty {
			continue
		}
		kept = append(kept, stmt)
	}
	return kept
}

func (t *Transformer) visitStatement(s jsast.Statement) {
	switch stmt := s.(type) {
	case *jsast.ExpressionStatement:
		stmt.Expression = t.visitExpression(stmt.Expression)

	case *jsast.VariableDeclaration:
		for _, decl := range stmt.Declarations {
			t.visitDeclarator(decl)
		}

	case *jsast.BlockStatement:
		prev := t.enterScope(analyzer.ScopeId(stmt.GetScopeId()))
		stmt.Body = t.visitStatements(stmt.Body)
		t.currentScope = prev

	case *jsast.FunctionDeclaration:
		prev := t.enterScope(analyzer.ScopeId(stmt.GetScopeId()))
		if stmt.Body != nil {
			stmt.Body.Body = t.visitStatements(stmt.Body.Body)
		}
		t.currentScope = prev

	case *jsast.ReturnStatement:
		if stmt.Argument != nil {
			stmt.Argument = t.visitExpression(stmt.Argument)
		}

	case *jsast.IfStatement:
		stmt.Test = t.visitExpression(stmt.Test)
		t.visitStatement(stmt.Consequent)
		if stmt.Alternate != nil {
			t.visitStatement(stmt.Alternate)
		}

	case *jsast.ForStatement:
		prev := t.enterScope(analyzer.ScopeId(stmt.GetScopeId()))
		switch init := stmt.Init.(type) {
		case *jsast.VariableDeclaration:
			t.visitStatement(init)
		case jsast.Expression:
			stmt.Init = t.visitExpression(init)
		}
		if stmt.Test != nil {
			stmt.Test = t.visitExpression(stmt.Test)
		}
		if stmt.Update != nil {
			stmt.Update = t.visitExpression(stmt.Update)
		}
		t.visitStatement(stmt.Body)
		t.currentScope = prev

	case *jsast.ForInStatement:
		prev := t.enterScope(analyzer.ScopeId(stmt.GetScopeId()))
		stmt.Right = t.visitExpression(stmt.Right)
		t.visitStatement(stmt.Body)
		t.currentScope = prev

	case *jsast.ForOfStatement:
		prev := t.enterScope(analyzer.ScopeId(stmt.GetScopeId()))
		stmt.Right = t.visitExpression(stmt.Right)
		t.visitStatement(stmt.Body)
		t.currentScope = prev

	case *jsast.WhileStatement:
		stmt.Test = t.visitExpression(stmt.Test)
		t.visitStatement(stmt.Body)

	case *jsast.DoWhileStatement:
		t.visitStatement(stmt.Body)
		stmt.Test = t.visitExpression(stmt.Test)

	case *jsast.SwitchStatement:
		prev := t.enterScope(analyzer.ScopeId(stmt.GetScopeId()))
		stmt.Discriminant = t.visitExpression(stmt.Discriminant)
		for _, c := range stmt.Cases {
			if c.Test != nil {
				c.Test = t.visitExpression(c.Test)
			}
			c.Consequent = t.visitStatements(c.Consequent)
		}
		t.currentScope = prev

	case *jsast.TryStatement:
		t.visitStatement(stmt.Block)
		if stmt.Handler != nil && stmt.Handler.Body != nil {
			prev := t.enterScope(analyzer.ScopeId(stmt.Handler.GetScopeId()))
			stmt.Handler.Body.Body = t.visitStatements(stmt.Handler.Body.Body)
			t.currentScope = prev
		}
		if stmt.Finalizer != nil {
			t.visitStatement(stmt.Finalizer)
		}

	case *jsast.ThrowStatement:
		stmt.Argument = t.visitExpression(stmt.Argument)

	case *jsast.LabeledStatement:
		t.visitStatement(stmt.Body)
	}
}

// visitDeclarator rewrites a `$state(...)` initializer's callee to
// `$.state` when the declared binding is reactive state.
func (t *Transformer) visitDeclarator(decl *jsast.VariableDeclarator) {
	if decl.Init == nil {
		return
	}
	decl.Init = t.visitExpression(decl.Init)

	id, ok := decl.Id.(*jsast.Identifier)
	if !ok {
		return
	}
	binding, ok := t.findBinding(id.Name)
	if !ok || binding.Kind != analyzer.BindingState {
		return
	}
	if call, isCall := decl.Init.(*jsast.CallExpression); isCall {
		call.Callee = &jsast.MemberExpression{
			Object:   identifier("$"),
			Property: identifier("state"),
		}
	}
}

// visitExpression rewrites reactive reads and writes (§4.J): a State
// identifier read becomes `$.get(x)`, an assignment to one becomes
// `$.set(x, rhs)`, an update expression becomes `$.set(x, $.get(x) ± 1)`.
// Other forms recurse into children.
func (t *Transformer) visitExpression(e jsast.Expression) jsast.Expression {
	switch expr := e.(type) {
	case *jsast.Identifier:
		if binding, ok := t.findBinding(expr.Name); ok && binding.Kind == analyzer.BindingState {
			return runtimeCall("get", expr)
		}
		return expr

	case *jsast.AssignmentExpression:
		if id, isIdent := expr.Left.(*jsast.Identifier); isIdent {
			if binding, ok := t.findBinding(id.Name); ok && binding.Kind == analyzer.BindingState {
				right := t.visitExpression(expr.Right)
				return runtimeCall("set", identifier(id.Name), right)
			}
		}
		t.visitAssignmentTarget(expr.Left)
		expr.Right = t.visitExpression(expr.Right)
		return expr

	case *jsast.UpdateExpression:
		if id, isIdent := expr.Argument.(*jsast.Identifier); isIdent {
			if binding, ok := t.findBinding(id.Name); ok && binding.Kind == analyzer.BindingState {
				op := "+"
				if expr.Operator == "--" {
					op = "-"
				}
				next := &jsast.BinaryExpression{
					Operator: op,
					Left:     runtimeCall("get", identifier(id.Name)),
					Right:    &jsast.Literal{Raw: "1", Kind: jsast.NumericLiteral},
				}
				return runtimeCall("set", identifier(id.Name), next)
			}
		}
		t.visitAssignmentTarget(expr.Argument)
		return expr

	case *jsast.CallExpression:
		expr.Callee = t.visitExpression(expr.Callee)
		for i := range expr.Arguments {
			expr.Arguments[i] = t.visitExpression(expr.Arguments[i])
		}
		return expr

	case *jsast.MemberExpression:
		expr.Object = t.visitExpression(expr.Object)
		if expr.Computed {
			expr.Property = t.visitExpression(expr.Property)
		}
		return expr

	case *jsast.BinaryExpression:
		expr.Left = t.visitExpression(expr.Left)
		expr.Right = t.visitExpression(expr.Right)
		return expr

	case *jsast.LogicalExpression:
		expr.Left = t.visitExpression(expr.Left)
		expr.Right = t.visitExpression(expr.Right)
		return expr

	case *jsast.UnaryExpression:
		expr.Argument = t.visitExpression(expr.Argument)
		return expr

	case *jsast.ConditionalExpression:
		expr.Test = t.visitExpression(expr.Test)
		expr.Consequent = t.visitExpression(expr.Consequent)
		expr.Alternate = t.visitExpression(expr.Alternate)
		return expr

	case *jsast.ArrayExpression:
		for i, el := range expr.Elements {
			if el != nil {
				expr.Elements[i] = t.visitExpression(el)
			}
		}
		return expr

	case *jsast.ObjectExpression:
		for _, prop := range expr.Properties {
			if prop.Computed && prop.Key != nil {
				prop.Key = t.visitExpression(prop.Key)
			}
			if prop.Value != nil {
				prop.Value = t.visitExpression(prop.Value)
			}
		}
		return expr

	case *jsast.SpreadElement:
		expr.Argument = t.visitExpression(expr.Argument)
		return expr

	case *jsast.SequenceExpression:
		for i := range expr.Expressions {
			expr.Expressions[i] = t.visitExpression(expr.Expressions[i])
		}
		return expr

	case *jsast.ArrowFunctionExpression:
		prev := t.enterScope(analyzer.ScopeId(expr.GetScopeId()))
		switch body := expr.Body.(type) {
		case *jsast.BlockStatement:
			body.Body = t.visitStatements(body.Body)
		case jsast.Expression:
			expr.Body = t.visitExpression(body)
		}
		t.currentScope = prev
		return expr

	case *jsast.FunctionExpression:
		prev := t.enterScope(analyzer.ScopeId(expr.GetScopeId()))
		if expr.Body != nil {
			expr.Body.Body = t.visitStatements(expr.Body.Body)
		}
		t.currentScope = prev
		return expr
	}
	return e
}

// visitAssignmentTarget visits the readable sub-parts of a write target:
// member objects and computed keys are reads, the written slot is not.
func (t *Transformer) visitAssignmentTarget(target jsast.Expression) {
	switch expr := target.(type) {
	case *jsast.MemberExpression:
		expr.Object = t.visitExpression(expr.Object)
		if expr.Computed {
			expr.Property = t.visitExpression(expr.Property)
		}
	case *jsast.ArrayExpression:
		for _, el := range expr.Elements {
			if el != nil {
				t.visitAssignmentTarget(el)
			}
		}
	case *jsast.ObjectExpression:
		for _, prop := range expr.Properties {
			if prop.Value != nil {
				t.visitAssignmentTarget(prop.Value)
			}
		}
	}
}
