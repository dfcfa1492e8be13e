package jsast

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/veltra-dev/compiler/internal/loc"
)

// SourceType is the source-type flag the external program parser
// contract requires the caller to pass alongside the text. The core picks
// SourceTS when the enclosing `<script>` tag carries `lang="ts"`, SourceJS
// otherwise (§4.F, §6). TreeSitterParser parses both with the TypeScript
// grammar; the flag does not change how it parses.
type SourceType uint8

const (
	SourceJS SourceType = iota
	SourceTS
)

// ProgramParser is the external program parser contract from §6: a
// callable with two shapes, parse_expression and parse_program, both
// total over valid programs of the given source type.
type ProgramParser interface {
	ParseExpression(text string, sourceType SourceType) (Expression, []error)
	ParseProgram(text string, sourceType SourceType) (*Program, []error)
}

// TreeSitterParser implements ProgramParser over the tree-sitter
// TypeScript grammar (a superset of JavaScript), the way
// _examples/C360Studio-semspec's own Svelte `<script>` processor parses
// embedded program text. A fresh *sitter.Parser is used per call since the
// core is single-threaded and synchronous (§5); there is no shared parser
// state to reuse across calls.
type TreeSitterParser struct{}

func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{}
}

func (p *TreeSitterParser) parse(text string) (*sitter.Tree, []byte, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	source := []byte(text)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	return tree, source, err
}

func (p *TreeSitterParser) ParseProgram(text string, _ SourceType) (*Program, []error) {
	tree, source, err := p.parse(text)
	if err != nil {
		return nil, []error{err}
	}
	defer tree.Close()
	root := tree.RootNode()
	prog := &Program{base: base{SpanVal: spanOf(root)}}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if stmt := lowerStatement(root.NamedChild(i), source); stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
	}
	return prog, collectErrors(root, source)
}

// ParseExpression parses text as a single expression, starting at offset
// zero of text, per §6.
func (p *TreeSitterParser) ParseExpression(text string, _ SourceType) (Expression, []error) {
	tree, source, err := p.parse(text)
	if err != nil {
		return nil, []error{err}
	}
	defer tree.Close()
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "expression_statement" && child.NamedChildCount() > 0 {
			return lowerExpression(child.NamedChild(0), source), collectErrors(root, source)
		}
		if expr := lowerExpression(child, source); expr != nil {
			return expr, collectErrors(root, source)
		}
	}
	return &Raw{base: base{SpanVal: spanOf(root)}, RawText: text}, collectErrors(root, source)
}

func collectErrors(n *sitter.Node, source []byte) []error {
	var errs []error
	if n.HasError() {
		var walk func(*sitter.Node)
		walk = func(node *sitter.Node) {
			if node.IsError() || node.IsMissing() {
				errs = append(errs, &treeSitterSyntaxError{span: spanOf(node), text: node.Content(source)})
			}
			for i := 0; i < int(node.ChildCount()); i++ {
				walk(node.Child(i))
			}
		}
		walk(n)
	}
	return errs
}

type treeSitterSyntaxError struct {
	span loc.Span
	text string
}

func (e *treeSitterSyntaxError) Error() string {
	return "syntax error near `" + e.text + "`"
}

func spanOf(n *sitter.Node) loc.Span {
	return loc.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func rawOf(n *sitter.Node, source []byte) *Raw {
	return &Raw{base: base{SpanVal: spanOf(n)}, RawText: n.Content(source)}
}

// lowerStatement lowers a tree-sitter statement node into the IR,
// falling back to Raw for shapes outside the modeled subset (class
// bodies, TS-only declarations, JSX, etc.) so their span and text still
// participate in SpanOffset without the analyzer needing to understand
// their internals.
func lowerStatement(n *sitter.Node, source []byte) Statement {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "expression_statement":
		if n.NamedChildCount() == 0 {
			return &EmptyStatement{base{spanOf(n)}}
		}
		return &ExpressionStatement{base{spanOf(n)}, lowerExpression(n.NamedChild(0), source)}

	case "empty_statement", ";":
		return &EmptyStatement{base{spanOf(n)}}

	case "lexical_declaration", "variable_declaration":
		return lowerVariableDeclaration(n, source)

	case "function_declaration", "generator_function_declaration":
		return lowerFunctionDeclaration(n, source)

	case "class_declaration", "abstract_class_declaration":
		decl := &ClassDeclaration{base: base{spanOf(n)}, RawText: n.Content(source)}
		if id := n.ChildByFieldName("name"); id != nil {
			decl.Id = &Identifier{base{spanOf(id)}, id.Content(source)}
		}
		return decl

	case "return_statement":
		var arg Expression
		if n.NamedChildCount() > 0 {
			arg = lowerExpression(n.NamedChild(0), source)
		}
		return &ReturnStatement{base{spanOf(n)}, arg}

	case "if_statement":
		stmt := &IfStatement{base: base{spanOf(n)}}
		stmt.Test = lowerExpression(n.ChildByFieldName("condition"), source)
		stmt.Consequent = lowerStatement(n.ChildByFieldName("consequence"), source)
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			stmt.Alternate = lowerElseBranch(alt, source)
		}
		return stmt

	case "statement_block":
		return lowerBlock(n, source)

	case "for_statement":
		stmt := &ForStatement{base: base{spanOf(n)}}
		if init := n.ChildByFieldName("initializer"); init != nil {
			if init.Type() == "lexical_declaration" || init.Type() == "variable_declaration" {
				stmt.Init = lowerVariableDeclaration(init, source)
			} else if init.NamedChildCount() > 0 {
				stmt.Init = lowerExpression(init.NamedChild(0), source)
			}
		}
		if test := n.ChildByFieldName("condition"); test != nil && test.NamedChildCount() > 0 {
			stmt.Test = lowerExpression(test.NamedChild(0), source)
		}
		if upd := n.ChildByFieldName("increment"); upd != nil {
			stmt.Update = lowerExpression(upd, source)
		}
		stmt.Body = lowerStatement(n.ChildByFieldName("body"), source)
		return stmt

	case "for_in_statement":
		isOf := false
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "of" {
				isOf = true
			}
		}
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		body := lowerStatement(n.ChildByFieldName("body"), source)
		var leftNode Node
		if left != nil {
			switch left.Type() {
			case "lexical_declaration", "variable_declaration":
				leftNode = lowerVariableDeclaration(left, source)
			default:
				leftNode = lowerPattern(left, source)
			}
		}
		if isOf {
			return &ForOfStatement{base: base{spanOf(n)}, Left: leftNode, Right: lowerExpression(right, source), Body: body}
		}
		return &ForInStatement{base: base{spanOf(n)}, Left: leftNode, Right: lowerExpression(right, source), Body: body}

	case "while_statement":
		cond := n.ChildByFieldName("condition")
		var test Expression
		if cond != nil && cond.NamedChildCount() > 0 {
			test = lowerExpression(cond.NamedChild(0), source)
		}
		return &WhileStatement{base{spanOf(n)}, test, lowerStatement(n.ChildByFieldName("body"), source)}

	case "do_statement":
		cond := n.ChildByFieldName("condition")
		var test Expression
		if cond != nil && cond.NamedChildCount() > 0 {
			test = lowerExpression(cond.NamedChild(0), source)
		}
		return &DoWhileStatement{base{spanOf(n)}, lowerStatement(n.ChildByFieldName("body"), source), test}

	case "switch_statement":
		stmt := &SwitchStatement{base: base{spanOf(n)}}
		cond := n.ChildByFieldName("value")
		if cond != nil && cond.NamedChildCount() > 0 {
			stmt.Discriminant = lowerExpression(cond.NamedChild(0), source)
		}
		body := n.ChildByFieldName("body")
		if body != nil {
			for i := 0; i < int(body.NamedChildCount()); i++ {
				c := body.NamedChild(i)
				if c.Type() != "switch_case" && c.Type() != "switch_default" {
					continue
				}
				sc := &SwitchCase{base: base{spanOf(c)}}
				if c.Type() == "switch_case" {
					if v := n.ChildByFieldName("value"); v != nil {
						_ = v
					}
					if val := c.NamedChild(0); val != nil {
						sc.Test = lowerExpression(val, source)
					}
				}
				for j := 0; j < int(c.NamedChildCount()); j++ {
					child := c.NamedChild(j)
					if s := lowerStatement(child, source); s != nil {
						sc.Consequent = append(sc.Consequent, s)
					}
				}
				stmt.Cases = append(stmt.Cases, sc)
			}
		}
		return stmt

	case "try_statement":
		stmt := &TryStatement{base: base{spanOf(n)}}
		if block := n.ChildByFieldName("body"); block != nil {
			stmt.Block = lowerBlock(block, source)
		}
		if handler := n.ChildByFieldName("handler"); handler != nil {
			cc := &CatchClause{base: base{spanOf(handler)}}
			if param := handler.ChildByFieldName("parameter"); param != nil {
				cc.Param = lowerPattern(param, source)
			}
			if body := handler.ChildByFieldName("body"); body != nil {
				cc.Body = lowerBlock(body, source)
			}
			stmt.Handler = cc
		}
		if fin := n.ChildByFieldName("finalizer"); fin != nil {
			if body := fin.ChildByFieldName("body"); body != nil {
				stmt.Finalizer = lowerBlock(body, source)
			}
		}
		return stmt

	case "throw_statement":
		var arg Expression
		if n.NamedChildCount() > 0 {
			arg = lowerExpression(n.NamedChild(0), source)
		}
		return &ThrowStatement{base{spanOf(n)}, arg}

	case "break_statement":
		stmt := &BreakStatement{base: base{spanOf(n)}}
		if label := n.ChildByFieldName("label"); label != nil {
			stmt.Label = &Identifier{base{spanOf(label)}, label.Content(source)}
		}
		return stmt

	case "continue_statement":
		stmt := &ContinueStatement{base: base{spanOf(n)}}
		if label := n.ChildByFieldName("label"); label != nil {
			stmt.Label = &Identifier{base{spanOf(label)}, label.Content(source)}
		}
		return stmt

	case "labeled_statement":
		label := n.ChildByFieldName("label")
		body := n.NamedChild(int(n.NamedChildCount()) - 1)
		stmt := &LabeledStatement{base: base{spanOf(n)}}
		if label != nil {
			stmt.Label = &Identifier{base{spanOf(label)}, label.Content(source)}
		}
		stmt.Body = lowerStatement(body, source)
		return stmt

	case "import_statement":
		return lowerImport(n, source)

	default:
		return rawOf(n, source)
	}
}

func lowerElseBranch(n *sitter.Node, source []byte) Statement {
	// tree-sitter's `else_clause` wraps either another if_statement or a
	// statement_block.
	if n.Type() == "else_clause" && n.NamedChildCount() > 0 {
		return lowerStatement(n.NamedChild(0), source)
	}
	return lowerStatement(n, source)
}

func lowerBlock(n *sitter.Node, source []byte) *BlockStatement {
	blk := &BlockStatement{base: base{spanOf(n)}}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if s := lowerStatement(n.NamedChild(i), source); s != nil {
			blk.Body = append(blk.Body, s)
		}
	}
	return blk
}

func lowerVariableDeclaration(n *sitter.Node, source []byte) *VariableDeclaration {
	kind := "let"
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "var", "let", "const":
			kind = n.Child(i).Type()
		}
	}
	decl := &VariableDeclaration{base: base{spanOf(n)}, Kind: kind}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		d := &VariableDeclarator{base: base{spanOf(child)}}
		if id := child.ChildByFieldName("name"); id != nil {
			d.Id = lowerPattern(id, source)
		}
		if init := child.ChildByFieldName("value"); init != nil {
			d.Init = lowerExpression(init, source)
		}
		decl.Declarations = append(decl.Declarations, d)
	}
	return decl
}

func lowerFunctionDeclaration(n *sitter.Node, source []byte) *FunctionDeclaration {
	fn := &FunctionDeclaration{base: base{spanOf(n)}, Generator: strings.Contains(n.Type(), "generator")}
	if id := n.ChildByFieldName("name"); id != nil {
		fn.Id = &Identifier{base{spanOf(id)}, id.Content(source)}
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = lowerParams(params, source)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body = lowerBlock(body, source)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "async" {
			fn.Async = true
		}
	}
	return fn
}

func lowerParams(n *sitter.Node, source []byte) []Pattern {
	var params []Pattern
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "required_parameter", "optional_parameter":
			// the TypeScript grammar wraps each parameter; unwrap the
			// pattern and fold a default value back into an
			// AssignmentPattern
			pat := lowerPattern(child.ChildByFieldName("pattern"), source)
			if value := child.ChildByFieldName("value"); value != nil {
				params = append(params, &AssignmentPattern{
					base{spanOf(child)}, pat, lowerExpression(value, source),
				})
			} else {
				params = append(params, pat)
			}
		default:
			params = append(params, lowerPattern(child, source))
		}
	}
	return params
}

func lowerImport(n *sitter.Node, source []byte) *ImportDeclaration {
	decl := &ImportDeclaration{base: base{spanOf(n)}}
	if src := n.ChildByFieldName("source"); src != nil {
		decl.Source = strings.Trim(src.Content(source), `"'`)
	}
	clause := n.ChildByFieldName("import")
	// the grammar nests default/namespace/named specifiers directly under
	// import_clause's children rather than a single field, so walk them.
	if clause == nil {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == "import_clause" {
				clause = n.NamedChild(i)
			}
		}
	}
	if clause == nil {
		return decl
	}
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		switch c.Type() {
		case "identifier":
			decl.Specifiers = append(decl.Specifiers, &ImportSpecifier{
				base:  base{spanOf(c)},
				Local: &Identifier{base{spanOf(c)}, c.Content(source)},
				Kind:  ImportDefault,
			})
		case "namespace_import":
			if id := c.NamedChild(int(c.NamedChildCount()) - 1); id != nil {
				decl.Specifiers = append(decl.Specifiers, &ImportSpecifier{
					base:  base{spanOf(c)},
					Local: &Identifier{base{spanOf(id)}, id.Content(source)},
					Kind:  ImportNamespace,
				})
			}
		case "named_imports":
			for j := 0; j < int(c.NamedChildCount()); j++ {
				spec := c.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				local := spec.ChildByFieldName("name")
				alias := spec.ChildByFieldName("alias")
				target := local
				if alias != nil {
					target = alias
				}
				if target == nil {
					continue
				}
				s := &ImportSpecifier{
					base:  base{spanOf(spec)},
					Local: &Identifier{base{spanOf(target)}, target.Content(source)},
					Kind:  ImportNamed,
				}
				if local != nil && alias != nil {
					s.Imported = &Identifier{base{spanOf(local)}, local.Content(source)}
				}
				decl.Specifiers = append(decl.Specifiers, s)
			}
		}
	}
	return decl
}

// lowerPattern lowers a binding-position node (identifier, destructuring
// pattern, default, or rest).
func lowerPattern(n *sitter.Node, source []byte) Pattern {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "type_identifier", "shorthand_property_identifier_pattern":
		return &Identifier{base{spanOf(n)}, n.Content(source)}

	case "object_pattern":
		pat := &ObjectPattern{base: base{spanOf(n)}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "shorthand_property_identifier_pattern":
				id := &Identifier{base{spanOf(child)}, child.Content(source)}
				pat.Properties = append(pat.Properties, &ObjectPatternProperty{
					base: base{spanOf(child)}, Key: id, Value: id, Shorthand: true,
				})
			case "object_assignment_pattern":
				// shorthand with a default: { size = fallback }
				left := child.ChildByFieldName("left")
				right := child.ChildByFieldName("right")
				id := &Identifier{base{spanOf(left)}, left.Content(source)}
				pat.Properties = append(pat.Properties, &ObjectPatternProperty{
					base:      base{spanOf(child)},
					Key:       id,
					Value:     &AssignmentPattern{base{spanOf(child)}, id, lowerExpression(right, source)},
					Shorthand: true,
				})
			case "pair_pattern":
				key := child.ChildByFieldName("key")
				val := child.ChildByFieldName("value")
				pat.Properties = append(pat.Properties, &ObjectPatternProperty{
					base:  base{spanOf(child)},
					Key:   lowerExpression(key, source),
					Value: lowerPattern(val, source),
				})
			case "rest_pattern":
				arg := child.NamedChild(0)
				pat.Properties = append(pat.Properties, &ObjectPatternProperty{
					base: base{spanOf(child)}, Value: &RestElement{base{spanOf(child)}, lowerPattern(arg, source)},
				})
			}
		}
		return pat

	case "array_pattern":
		pat := &ArrayPattern{base: base{spanOf(n)}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			pat.Elements = append(pat.Elements, lowerPattern(n.NamedChild(i), source))
		}
		return pat

	case "rest_pattern":
		var arg Pattern
		if n.NamedChildCount() > 0 {
			arg = lowerPattern(n.NamedChild(0), source)
		}
		return &RestElement{base{spanOf(n)}, arg}

	case "assignment_pattern":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		return &AssignmentPattern{base{spanOf(n)}, lowerPattern(left, source), lowerExpression(right, source)}

	default:
		return &Identifier{base{spanOf(n)}, n.Content(source)}
	}
}

// lowerExpression lowers an expression-position node.
func lowerExpression(n *sitter.Node, source []byte) Expression {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return lowerExpression(n.NamedChild(0), source)
		}
		return rawOf(n, source)

	case "identifier", "shorthand_property_identifier":
		return &Identifier{base{spanOf(n)}, n.Content(source)}

	case "number":
		return &Literal{base{spanOf(n)}, n.Content(source), NumericLiteral}
	case "string", "template_string":
		return &Literal{base{spanOf(n)}, n.Content(source), StringLiteral}
	case "true", "false":
		return &Literal{base{spanOf(n)}, n.Content(source), BooleanLiteral}
	case "null", "undefined":
		return &Literal{base{spanOf(n)}, n.Content(source), NullLiteral}
	case "regex":
		return &Literal{base{spanOf(n)}, n.Content(source), RegexLiteral}

	case "call_expression":
		callee := lowerExpression(n.ChildByFieldName("function"), source)
		expr := &CallExpression{base: base{spanOf(n)}, Callee: callee}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				expr.Arguments = append(expr.Arguments, lowerExpression(args.NamedChild(i), source))
			}
		}
		return expr

	case "member_expression":
		obj := lowerExpression(n.ChildByFieldName("object"), source)
		prop := n.ChildByFieldName("property")
		var propExpr Expression
		if prop != nil {
			propExpr = &Identifier{base{spanOf(prop)}, prop.Content(source)}
		}
		return &MemberExpression{base: base{spanOf(n)}, Object: obj, Property: propExpr, Computed: false}

	case "subscript_expression":
		obj := lowerExpression(n.ChildByFieldName("object"), source)
		idx := lowerExpression(n.ChildByFieldName("index"), source)
		return &MemberExpression{base: base{spanOf(n)}, Object: obj, Property: idx, Computed: true}

	case "assignment_expression", "augmented_assignment_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		op := "="
		for i := 0; i < int(n.ChildCount()); i++ {
			t := n.Child(i).Type()
			if strings.HasSuffix(t, "=") && t != "==" && t != "===" && t != "!=" && t != "!==" && t != "<=" && t != ">=" {
				op = t
			}
		}
		return &AssignmentExpression{base: base{spanOf(n)}, Operator: op, Left: lowerExpression(left, source), Right: lowerExpression(right, source)}

	case "update_expression":
		arg := n.ChildByFieldName("argument")
		op := "++"
		prefix := false
		for i := 0; i < int(n.ChildCount()); i++ {
			c := n.Child(i)
			if c.Type() == "++" || c.Type() == "--" {
				op = c.Type()
				prefix = i == 0
			}
		}
		return &UpdateExpression{base: base{spanOf(n)}, Operator: op, Argument: lowerExpression(arg, source), Prefix: prefix}

	case "binary_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		op := ""
		if o := n.ChildByFieldName("operator"); o != nil {
			op = o.Type()
		} else {
			op = operatorBetween(n, left, right)
		}
		if op == "&&" || op == "||" || op == "??" {
			return &LogicalExpression{base{spanOf(n)}, op, lowerExpression(left, source), lowerExpression(right, source)}
		}
		return &BinaryExpression{base{spanOf(n)}, op, lowerExpression(left, source), lowerExpression(right, source)}

	case "unary_expression":
		arg := n.ChildByFieldName("argument")
		op := ""
		if n.ChildCount() > 0 {
			op = n.Child(0).Content(source)
		}
		return &UnaryExpression{base{spanOf(n)}, op, lowerExpression(arg, source), true}

	case "ternary_expression":
		cond := n.ChildByFieldName("condition")
		cons := n.ChildByFieldName("consequence")
		alt := n.ChildByFieldName("alternative")
		return &ConditionalExpression{base{spanOf(n)}, lowerExpression(cond, source), lowerExpression(cons, source), lowerExpression(alt, source)}

	case "array", "array_pattern":
		expr := &ArrayExpression{base: base{spanOf(n)}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			expr.Elements = append(expr.Elements, lowerExpression(n.NamedChild(i), source))
		}
		return expr

	case "object", "object_pattern":
		expr := &ObjectExpression{base: base{spanOf(n)}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "pair", "pair_pattern":
				key := child.ChildByFieldName("key")
				val := child.ChildByFieldName("value")
				expr.Properties = append(expr.Properties, &ObjectProperty{
					base: base{spanOf(child)}, Key: lowerExpression(key, source), Value: lowerExpression(val, source),
				})
			case "shorthand_property_identifier", "shorthand_property_identifier_pattern":
				id := &Identifier{base{spanOf(child)}, child.Content(source)}
				expr.Properties = append(expr.Properties, &ObjectProperty{base: base{spanOf(child)}, Key: id, Value: id, Shorthand: true})
			case "spread_element":
				if child.NamedChildCount() > 0 {
					expr.Properties = append(expr.Properties, &ObjectProperty{
						base: base{spanOf(child)}, Spread: true, Value: lowerExpression(child.NamedChild(0), source),
					})
				}
			}
		}
		return expr

	case "spread_element":
		var arg Expression
		if n.NamedChildCount() > 0 {
			arg = lowerExpression(n.NamedChild(0), source)
		}
		return &SpreadElement{base{spanOf(n)}, arg}

	case "sequence_expression":
		expr := &SequenceExpression{base: base{spanOf(n)}}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			expr.Expressions = append(expr.Expressions, lowerExpression(n.NamedChild(i), source))
		}
		return expr

	case "arrow_function":
		fn := &ArrowFunctionExpression{base: base{spanOf(n)}}
		if params := n.ChildByFieldName("parameters"); params != nil {
			fn.Params = lowerParams(params, source)
		} else if param := n.ChildByFieldName("parameter"); param != nil {
			fn.Params = []Pattern{lowerPattern(param, source)}
		}
		body := n.ChildByFieldName("body")
		if body != nil {
			if body.Type() == "statement_block" {
				fn.Body = lowerBlock(body, source)
			} else {
				fn.Body = lowerExpression(body, source)
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if n.Child(i).Type() == "async" {
				fn.Async = true
			}
		}
		return fn

	case "function_expression", "generator_function":
		fn := &FunctionExpression{base: base{spanOf(n)}, Generator: strings.Contains(n.Type(), "generator")}
		if id := n.ChildByFieldName("name"); id != nil {
			fn.Id = &Identifier{base{spanOf(id)}, id.Content(source)}
		}
		if params := n.ChildByFieldName("parameters"); params != nil {
			fn.Params = lowerParams(params, source)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			fn.Body = lowerBlock(body, source)
		}
		return fn

	default:
		return rawOf(n, source)
	}
}

func operatorBetween(n, left, right *sitter.Node) string {
	if left == nil || right == nil {
		return ""
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.StartByte() >= left.EndByte() && c.EndByte() <= right.StartByte() {
			return c.Type()
		}
	}
	return ""
}
