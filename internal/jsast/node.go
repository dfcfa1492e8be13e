// Package jsast is the embedded-program IR the core's analyzer and
// transformer operate on, plus a concrete implementation of the "external
// program parser" and "external program visitor" collaborators the
// specification describes but does not itself provide.
//
// The IR is deliberately small: it models exactly the statement and
// expression shapes the analyzer needs to reason about bindings and
// references, and the transformer needs to rewrite. Anything the grammar
// produces that falls outside that shape (class bodies, TypeScript type
// annotations, template literal internals, JSX) is preserved verbatim as a
// Raw node so its span and text survive without the core needing to
// understand its internals — full program semantics are a declared
// non-goal.
package jsast

import "github.com/veltra-dev/compiler/internal/loc"

// Node is the capability every IR node shares: a span into the source
// text it was parsed from.
type Node interface {
	Span() loc.Span
}

// Statement is any node that can appear in a statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is any node that can appear in expression position.
type Expression interface {
	Node
	expressionNode()
}

// Pattern is any node that can appear in a binding position: an
// identifier, a destructuring pattern, a default, or a rest element.
type Pattern interface {
	Node
	patternNode()
}

type base struct {
	SpanVal loc.Span
}

func (b base) Span() loc.Span { return b.SpanVal }

// scopeCell is the scope-id cell stored on scope-introducing nodes. The
// analyzer assigns it; the transformer's mutable visit sets the current
// scope on entry and restores the parent on exit (§4.H).
type scopeCell struct {
	ScopeCellId int
}

func (c *scopeCell) SetScopeId(id int) { c.ScopeCellId = id }
func (c *scopeCell) GetScopeId() int   { return c.ScopeCellId }

// ScopeCarrier is implemented by every node that introduces a scope.
type ScopeCarrier interface {
	SetScopeId(id int)
	GetScopeId() int
}

// ---- Program -----------------------------------------------------------

// Program is a full embedded program: a module or script body.
type Program struct {
	base
	scopeCell
	Body []Statement
}

// ---- Expressions --------------------------------------------------------

// Identifier is both an expression (a reference) and a pattern (a binding
// target), matching how the grammar itself treats identifiers.
type Identifier struct {
	base
	Name string
}

func (*Identifier) expressionNode() {}
func (*Identifier) patternNode()    {}

// Literal is a numeric, string, boolean, or null literal. Raw preserves
// the exact source text (so e.g. numeric separators and string escaping
// are not lost).
type Literal struct {
	base
	Raw  string
	Kind LiteralKind
}

type LiteralKind uint8

const (
	NumericLiteral LiteralKind = iota
	StringLiteral
	BooleanLiteral
	NullLiteral
	RegexLiteral
)

func (*Literal) expressionNode() {}

// CallExpression is `callee(arguments...)`, optionally optional-chained.
type CallExpression struct {
	base
	Callee    Expression
	Arguments []Expression
	Optional  bool
}

func (*CallExpression) expressionNode() {}

// MemberExpression is `object.property` or `object[property]`.
type MemberExpression struct {
	base
	Object   Expression
	Property Expression
	Computed bool
	Optional bool
}

func (*MemberExpression) expressionNode() {}

// AssignmentExpression is `left op right`, e.g. `x = 1`, `x += 1`.
type AssignmentExpression struct {
	base
	Operator string
	Left     Expression
	Right    Expression
}

func (*AssignmentExpression) expressionNode() {}

// UpdateExpression is `++x`/`x++`/`--x`/`x--`.
type UpdateExpression struct {
	base
	Operator string
	Argument Expression
	Prefix   bool
}

func (*UpdateExpression) expressionNode() {}

// BinaryExpression is any binary operator other than logical and/or.
type BinaryExpression struct {
	base
	Operator string
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) expressionNode() {}

// LogicalExpression is `&&`, `||`, `??`.
type LogicalExpression struct {
	base
	Operator string
	Left     Expression
	Right    Expression
}

func (*LogicalExpression) expressionNode() {}

// UnaryExpression is `!x`, `-x`, `typeof x`, `void x`, `delete x`.
type UnaryExpression struct {
	base
	Operator string
	Argument Expression
	Prefix   bool
}

func (*UnaryExpression) expressionNode() {}

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	base
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (*ConditionalExpression) expressionNode() {}

// ArrayExpression is `[a, b, ...c]`. A nil element denotes an elision.
type ArrayExpression struct {
	base
	Elements []Expression
}

func (*ArrayExpression) expressionNode() {}

// ObjectExpression is `{ a: 1, ...b }`.
type ObjectExpression struct {
	base
	Properties []*ObjectProperty
}

func (*ObjectExpression) expressionNode() {}

type ObjectProperty struct {
	base
	Key       Expression
	Value     Expression
	Computed  bool
	Shorthand bool
	Spread    bool
}

// SpreadElement is `...expr` inside a call, array, or object.
type SpreadElement struct {
	base
	Argument Expression
}

func (*SpreadElement) expressionNode() {}

// SequenceExpression is the comma operator `a, b, c`.
type SequenceExpression struct {
	base
	Expressions []Expression
}

func (*SequenceExpression) expressionNode() {}

// ArrowFunctionExpression is `(params) => body`. Body is either a
// *BlockStatement or a single Expression (the implicit-return form).
type ArrowFunctionExpression struct {
	base
	scopeCell
	Params []Pattern
	Body   Node
	Async  bool
}

func (*ArrowFunctionExpression) expressionNode() {}

// FunctionExpression is `function name(params) { body }`.
type FunctionExpression struct {
	base
	scopeCell
	Id        *Identifier
	Params    []Pattern
	Body      *BlockStatement
	Async     bool
	Generator bool
}

func (*FunctionExpression) expressionNode() {}

// Raw is an opaque fallback for any expression or statement shape outside
// the modeled subset; its span and source text are preserved so a span
// offset still applies correctly and the original text can be rendered,
// but its internals are not visited by the analyzer.
type Raw struct {
	base
	RawText string
}

func (*Raw) expressionNode() {}
func (*Raw) statementNode()  {}
func (*Raw) patternNode()    {}

// ---- Patterns ------------------------------------------------------------

// ObjectPattern is `{ a, b: c, ...rest }` used as a binding target.
type ObjectPattern struct {
	base
	Properties []*ObjectPatternProperty
}

func (*ObjectPattern) patternNode() {}

type ObjectPatternProperty struct {
	base
	Key       Expression
	Value     Pattern
	Computed  bool
	Shorthand bool
}

// ArrayPattern is `[a, b, ...rest]` used as a binding target. A nil
// element denotes an elision (`[a, , b]`).
type ArrayPattern struct {
	base
	Elements []Pattern
}

func (*ArrayPattern) patternNode() {}

// AssignmentPattern is a default value in a binding position: `a = 1`.
type AssignmentPattern struct {
	base
	Left  Pattern
	Right Expression
}

func (*AssignmentPattern) patternNode() {}

// RestElement is `...rest` used as a binding target.
type RestElement struct {
	base
	Argument Pattern
}

func (*RestElement) patternNode() {}

// ---- Statements -----------------------------------------------------------

type ExpressionStatement struct {
	base
	Expression Expression
}

func (*ExpressionStatement) statementNode() {}

type BlockStatement struct {
	base
	scopeCell
	Body []Statement
}

func (*BlockStatement) statementNode() {}

type EmptyStatement struct{ base }

func (*EmptyStatement) statementNode() {}

type VariableDeclaration struct {
	base
	Kind         string // "var" | "let" | "const"
	Declarations []*VariableDeclarator
}

func (*VariableDeclaration) statementNode() {}

type VariableDeclarator struct {
	base
	Id   Pattern
	Init Expression
}

type FunctionDeclaration struct {
	base
	scopeCell
	Id        *Identifier
	Params    []Pattern
	Body      *BlockStatement
	Async     bool
	Generator bool
}

func (*FunctionDeclaration) statementNode() {}

type ClassDeclaration struct {
	base
	Id      *Identifier
	RawText string
}

func (*ClassDeclaration) statementNode() {}

type ReturnStatement struct {
	base
	Argument Expression
}

func (*ReturnStatement) statementNode() {}

type IfStatement struct {
	base
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

func (*IfStatement) statementNode() {}

type ForStatement struct {
	base
	scopeCell
	Init   Node // *VariableDeclaration | Expression | nil
	Test   Expression
	Update Expression
	Body   Statement
}

func (*ForStatement) statementNode() {}

type ForInStatement struct {
	base
	scopeCell
	Left  Node // *VariableDeclaration | Pattern
	Right Expression
	Body  Statement
}

func (*ForInStatement) statementNode() {}

type ForOfStatement struct {
	base
	scopeCell
	Left  Node
	Right Expression
	Body  Statement
	Await bool
}

func (*ForOfStatement) statementNode() {}

type WhileStatement struct {
	base
	Test Expression
	Body Statement
}

func (*WhileStatement) statementNode() {}

type DoWhileStatement struct {
	base
	Body Statement
	Test Expression
}

func (*DoWhileStatement) statementNode() {}

type SwitchStatement struct {
	base
	scopeCell
	Discriminant Expression
	Cases        []*SwitchCase
}

func (*SwitchStatement) statementNode() {}

type SwitchCase struct {
	base
	Test       Expression // nil for default
	Consequent []Statement
}

type TryStatement struct {
	base
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func (*TryStatement) statementNode() {}

type CatchClause struct {
	base
	scopeCell
	Param Pattern
	Body  *BlockStatement
}

type ThrowStatement struct {
	base
	Argument Expression
}

func (*ThrowStatement) statementNode() {}

type BreakStatement struct {
	base
	Label *Identifier
}

func (*BreakStatement) statementNode() {}

type ContinueStatement struct {
	base
	Label *Identifier
}

func (*ContinueStatement) statementNode() {}

// LabeledStatement is `label: statement`. Used to recognize the legacy
// `$:` reactive-statement form when Label.Name == "$".
type LabeledStatement struct {
	base
	Label *Identifier
	Body  Statement
}

func (*LabeledStatement) statementNode() {}

type ImportDeclaration struct {
	base
	Specifiers []*ImportSpecifier
	Source     string
}

func (*ImportDeclaration) statementNode() {}

type ImportSpecifierKind uint8

const (
	ImportDefault ImportSpecifierKind = iota
	ImportNamed
	ImportNamespace
)

type ImportSpecifier struct {
	base
	Local    *Identifier
	Imported *Identifier // nil for default/namespace
	Kind     ImportSpecifierKind
}

// ExportDefaultDeclaration is `export default <declaration>`; the
// transformer synthesizes one around the component function.
type ExportDefaultDeclaration struct {
	base
	Declaration Node
}

func (*ExportDefaultDeclaration) statementNode() {}
