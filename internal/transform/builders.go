package transform

import "github.com/veltra-dev/compiler/internal/jsast"

// Synthetic-node constructors. Synthesized nodes carry zero spans; only
// nodes that came from source keep real offsets.

func identifier(name string) *jsast.Identifier {
	return &jsast.Identifier{Name: name}
}

// runtimeCall builds `$.<method>(args...)`.
func runtimeCall(method string, args ...jsast.Expression) *jsast.CallExpression {
	return &jsast.CallExpression{
		Callee: &jsast.MemberExpression{
			Object:   identifier("$"),
			Property: identifier(method),
		},
		Arguments: args,
	}
}

func exprStatement(expr jsast.Expression) jsast.Statement {
	return &jsast.ExpressionStatement{Expression: expr}
}

// varDeclaration builds `var <name> = <init>;`.
func varDeclaration(name string, init jsast.Expression) jsast.Statement {
	return &jsast.VariableDeclaration{
		Kind: "var",
		Declarations: []*jsast.VariableDeclarator{
			{Id: identifier(name), Init: init},
		},
	}
}

func arrow(body []jsast.Statement) *jsast.ArrowFunctionExpression {
	return &jsast.ArrowFunctionExpression{Body: &jsast.BlockStatement{Body: body}}
}

func stringLiteral(value string) *jsast.Literal {
	return &jsast.Literal{Raw: "`" + value + "`", Kind: jsast.StringLiteral}
}

func importNamespace(local, source string) jsast.Statement {
	return &jsast.ImportDeclaration{
		Source: source,
		Specifiers: []*jsast.ImportSpecifier{
			{Local: identifier(local), Kind: jsast.ImportNamespace},
		},
	}
}

func importBare(source string) jsast.Statement {
	return &jsast.ImportDeclaration{Source: source}
}
