// Package ast defines the template abstract syntax tree: Root, Fragment,
// FragmentNode, Element, Attribute, Directive, Tag, Block, StyleSheet,
// Script, and Options, plus the visitor capability set (§3, §4.H).
package ast

import (
	"sync"

	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/loc"
)

// NodeId and ScopeId are dense numeric indices into the analyzer's side
// tables, per §9 ("back-references ... handled
// via dense numeric indices into side tables").
type NodeId int
type ScopeId int

const NoScope ScopeId = -1

// Node is the capability every template AST entity shares.
type Node interface {
	Span() loc.Span
}

type base struct {
	SpanVal loc.Span
}

func (b base) Span() loc.Span { return b.SpanVal }

// ---- Root -----------------------------------------------------------------

// Root is the top of the tree, one per file.
type Root struct {
	base
	Module   *Script
	Instance *Script
	CSS      *StyleSheet
	Options  *Options
	Fragment *Fragment
}

// ---- Fragment / FragmentNode ----------------------------------------------

// FragmentMetadata carries the two runtime-relevant flags a fragment's
// scope accumulates: whether its scope is materialized at runtime
// (transparent) and whether it needs traversal during mount (dynamic).
type FragmentMetadata struct {
	Transparent bool
	Dynamic     bool
}

// Fragment is an ordered sequence of FragmentNode. ScopeId is assigned by
// the analyzer, never the parser, and exactly once.
type Fragment struct {
	base
	Nodes    []FragmentNode
	metadata FragmentMetadata
	mu       sync.Mutex
	ScopeId  ScopeId
}

func NewFragment(span loc.Span) *Fragment {
	return &Fragment{base: base{span}, ScopeId: NoScope}
}

func (f *Fragment) Metadata() FragmentMetadata {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metadata
}

func (f *Fragment) SetMetadata(m FragmentMetadata) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata = m
}

// FragmentNode is the tagged union Text | Element | Tag | Comment | Block.
type FragmentNode interface {
	Node
	fragmentNode()
}

// ---- Text -------------------------------------------------------------

// Text holds both the exact source slice (Raw) and the entity-decoded
// value (Data). Invariant: Raw equals source[Span.Start:Span.End].
type Text struct {
	base
	Raw  string
	Data string
}

func (*Text) fragmentNode() {}

// ---- Comment ------------------------------------------------------------

type Comment struct {
	base
	Data string
}

func (*Comment) fragmentNode() {}

// ---- Element ------------------------------------------------------------

// ElementKind discriminates the Element variants named in §3. All of them
// share name/attributes/fragment; only the kind and, for Component,
// whether the name contains a namespace dot, vary.
type ElementKind uint8

const (
	RegularElement ElementKind = iota
	SvelteHead
	SvelteOptionsElement
	SvelteWindow
	SvelteDocument
	SvelteBody
	SvelteElement
	SvelteComponent
	SvelteSelf
	SvelteFragment
	TitleElement
	SlotElement
	Component
)

var metaTagKind = map[string]ElementKind{
	"svelte:head":      SvelteHead,
	"svelte:options":   SvelteOptionsElement,
	"svelte:window":    SvelteWindow,
	"svelte:document":  SvelteDocument,
	"svelte:body":      SvelteBody,
	"svelte:element":   SvelteElement,
	"svelte:component": SvelteComponent,
	"svelte:self":      SvelteSelf,
	"svelte:fragment":  SvelteFragment,
}

// MetaTagKind returns the Element variant a `svelte:`-prefixed name maps
// to, and whether name was recognized.
func MetaTagKind(name string) (ElementKind, bool) {
	k, ok := metaTagKind[name]
	return k, ok
}

// RootOnlyMetaTags names the meta tags that must appear at the root and
// must not repeat (§4.C step 6).
var RootOnlyMetaTags = map[string]bool{
	"svelte:head":     true,
	"svelte:options":  true,
	"svelte:window":   true,
	"svelte:document": true,
	"svelte:body":     true,
}

// MetaTagNames is the full recognized `svelte:` meta-tag set (§4.C step 4).
var MetaTagNames = map[string]bool{
	"head": true, "options": true, "window": true, "document": true,
	"body": true, "element": true, "component": true, "self": true,
	"fragment": true,
}

// Element is any element-shaped node: a regular HTML element, a
// svelte:-prefixed meta element, <title>, <slot>, or a component.
type Element struct {
	base
	Kind       ElementKind
	Name       string
	Attributes []Attribute
	// Self-closing and void elements get an empty, non-nil Fragment
	// spanning the end of the tag (§4.C/§4.K).
	Fragment *Fragment
	ScopeId  ScopeId
}

func (*Element) fragmentNode() {}

func (e *Element) IsComponent() bool {
	return e.Kind == Component || e.Kind == SvelteComponent || e.Kind == SvelteSelf
}

// ---- Attribute ------------------------------------------------------------

type AttributeValueKind uint8

const (
	ValueTrue AttributeValueKind = iota
	ValueExpressionTag
	ValueQuoted
)

// AttributeValue is True | ExpressionTag | Quoted([]QuotedPart).
type AttributeValue struct {
	Kind  AttributeValueKind
	Expr  *ExpressionTag // set when Kind == ValueExpressionTag
	Parts []QuotedPart   // set when Kind == ValueQuoted
}

// QuotedPart is Text | ExpressionTag inside a quoted attribute value.
type QuotedPart struct {
	Text *Text
	Expr *ExpressionTag
}

func (p QuotedPart) IsText() bool { return p.Text != nil }

// IsStatic reports whether the value is knowable at parse time.
func (v AttributeValue) IsStatic() bool {
	if v.Kind != ValueQuoted {
		return v.Kind == ValueTrue
	}
	for _, p := range v.Parts {
		if p.Expr != nil {
			return false
		}
	}
	return true
}

// StaticValue returns the concatenated literal text of a quoted value
// with no expression parts, and true; for any other value, including a
// bare boolean attribute (which IsStatic counts as static), it returns
// "" and false.
func (v AttributeValue) StaticValue() (string, bool) {
	switch v.Kind {
	case ValueTrue:
		return "", false
	case ValueExpressionTag:
		return "", false
	case ValueQuoted:
		out := ""
		for _, p := range v.Parts {
			if p.Expr != nil {
				return "", false
			}
			out += p.Text.Data
		}
		return out, true
	}
	return "", false
}

// AttributeKind discriminates Attribute variants: a normal name/value
// pair, a spread, or one of the eight directive kinds.
type AttributeKind uint8

const (
	NormalAttribute AttributeKind = iota
	SpreadAttribute
	AnimateDirective
	BindDirective
	ClassDirective
	LetDirective
	OnDirective
	StyleDirective
	TransitionDirective
	UseDirective
)

func (k AttributeKind) IsDirective() bool {
	return k >= AnimateDirective
}

// UniquenessKind returns the key-kind used by the attribute-uniqueness
// check in §4.B: "Attribute" for normal attributes and bind: directives
// (so bind:x collides with bare x), the directive's own kind name
// otherwise (so class:x/style:x don't collide with bare x or each other).
func (k AttributeKind) UniquenessKind() string {
	switch k {
	case NormalAttribute, BindDirective:
		return "Attribute"
	case SpreadAttribute:
		return "Spread"
	case AnimateDirective:
		return "Animate"
	case ClassDirective:
		return "Class"
	case LetDirective:
		return "Let"
	case OnDirective:
		return "On"
	case StyleDirective:
		return "Style"
	case TransitionDirective:
		return "Transition"
	case UseDirective:
		return "Use"
	}
	return "Attribute"
}

// Attribute is a name/value pair, a spread, or a directive on an element.
type Attribute struct {
	base
	Kind  AttributeKind
	Name  string // directive base name for directives; attribute name otherwise
	Value AttributeValue

	// Directive-only fields.
	Modifiers  []string
	Expression jsast.Expression // directive expression (nil for style:/spread)

	// TransitionDirective only.
	Intro bool
	Outro bool

	// SpreadAttribute only.
	SpreadExpr jsast.Expression

	KeyLoc loc.Span // span of just the attribute/directive name, for diagnostics
}

func (a Attribute) UniquenessKey() (kind, name string) {
	return a.Kind.UniquenessKind(), a.Name
}

// ---- Tag ------------------------------------------------------------------

type TagKind uint8

const (
	TagExpression TagKind = iota
	TagHtml
	TagDebug
	TagConst
	TagRender
)

// ExpressionTag is the `{expr}` form, also embedded in AttributeValue.
type ExpressionTag struct {
	base
	Expression jsast.Expression
}

func (*ExpressionTag) fragmentNode() {}

// HtmlTag is `{@html expr}`.
type HtmlTag struct {
	base
	Expression jsast.Expression
}

func (*HtmlTag) fragmentNode() {}

// DebugTag is `{@debug a, b, c}`; Identifiers holds the comma-separated
// argument identifiers (possibly empty, meaning "debug all").
type DebugTag struct {
	base
	Identifiers []*jsast.Identifier
}

func (*DebugTag) fragmentNode() {}

// ConstTag is `{@const name = expr}`. Declaration must be exactly one
// variable declarator, per §3.
type ConstTag struct {
	base
	Declaration *jsast.VariableDeclarator
}

func (*ConstTag) fragmentNode() {}

// RenderTag is `{@render expr(...)}`. Expression is restricted to a call
// expression, possibly behind an optional chain.
type RenderTag struct {
	base
	Expression jsast.Expression
}

func (*RenderTag) fragmentNode() {}

// ---- Block ------------------------------------------------------------

// IfBlock models `{#if}`/`{:else if}`/`{:else}`/`{/if}`. Elseif is true
// iff this block was introduced by `{:else if}`; such a block is always
// the sole child of its parent's Alternate fragment (representational
// flattening, §3).
type IfBlock struct {
	base
	Test       jsast.Expression
	Consequent *Fragment
	Alternate  *Fragment // nil if no else clause
	Elseif     bool
}

func (*IfBlock) fragmentNode() {}

// EachBlock models `{#each expr as context, index (key)}`.
type EachBlock struct {
	base
	Expression jsast.Expression
	Context    jsast.Pattern
	Body       *Fragment
	Fallback   *Fragment         // `{:else}` clause when the iterable is empty
	Index      *jsast.Identifier // the `, index` binding, if present
	Key        jsast.Expression  // the `(key)` expression, if present
}

func (*EachBlock) fragmentNode() {}

// AwaitBlock models `{#await expr}pending{:then value}fulfilled{:catch error}rejected{/await}`.
type AwaitBlock struct {
	base
	Expression jsast.Expression
	Pending    *Fragment // nil if omitted (immediate then/catch form)
	Value      jsast.Pattern
	Then       *Fragment
	Error      jsast.Pattern
	Catch      *Fragment
}

func (*AwaitBlock) fragmentNode() {}

// KeyBlock models `{#key expr}...{/key}`: the body is torn down and
// recreated whenever expr changes identity.
type KeyBlock struct {
	base
	Expression jsast.Expression
	Body       *Fragment
}

func (*KeyBlock) fragmentNode() {}

// SnippetBlock models `{#snippet name(params)}...{/snippet}`.
type SnippetBlock struct {
	base
	Name   *jsast.Identifier
	Params []jsast.Pattern
	Body   *Fragment
}

func (*SnippetBlock) fragmentNode() {}
