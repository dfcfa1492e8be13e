package ast

import "github.com/veltra-dev/compiler/internal/loc"

// StyleSheet is the parsed <style> block. The selector tree is structural
// only; no CSS semantics are evaluated.
type StyleSheet struct {
	base
	Attributes []Attribute
	Children   []StyleSheetChild
	Content    StyleSheetContent
}

// StyleSheetContent keeps the raw text between <style> and </style> so
// downstream tooling can re-emit it untouched.
type StyleSheetContent struct {
	SpanVal loc.Span
	Styles  string
	Comment *Comment
}

func (c StyleSheetContent) Span() loc.Span { return c.SpanVal }

// StyleSheetChild is Rule | AtRule.
type StyleSheetChild interface {
	Node
	styleSheetChild()
}

// Rule is `selector-list { ... }`.
type Rule struct {
	base
	Prelude *SelectorList
	Block   *CSSBlock
}

func (*Rule) styleSheetChild() {}

// AtRule is `@name prelude;` or `@name prelude { ... }`. Block is nil for
// the semicolon-terminated form.
type AtRule struct {
	base
	Name    string
	Prelude string
	Block   *CSSBlock
}

func (*AtRule) styleSheetChild() {}

// CSSBlock is the brace-delimited body of a rule or at-rule.
type CSSBlock struct {
	base
	Children []CSSBlockChild
}

// CSSBlockChild is Rule | AtRule | Declaration.
type CSSBlockChild interface {
	Node
	cssBlockChild()
}

func (*Rule) cssBlockChild()   {}
func (*AtRule) cssBlockChild() {}

// Declaration is `property: value`. Value is the trimmed raw text.
type Declaration struct {
	base
	Property string
	Value    string
}

func (*Declaration) cssBlockChild() {}

// SelectorList is a comma-separated list of complex selectors.
type SelectorList struct {
	base
	Children []*ComplexSelector
}

// ComplexSelector is one or more relative selectors joined by combinators.
type ComplexSelector struct {
	base
	Children []*RelativeSelector
}

// RelativeSelector is a combinator (nil on the first selector of a
// complex selector) and a run of simple selectors.
type RelativeSelector struct {
	base
	Combinator *Combinator
	Selectors  []SimpleSelector
}

type Combinator struct {
	base
	Name string // "+", "~", ">", "||", or " " (descendant)
}

func NewCombinator(span loc.Span, name string) *Combinator {
	return &Combinator{base{span}, name}
}

// SimpleSelector is the tagged union over the simple-selector kinds.
type SimpleSelector interface {
	Node
	simpleSelector()
}

type TypeSelector struct {
	base
	Name string
}

func (*TypeSelector) simpleSelector() {}

type IdSelector struct {
	base
	Name string
}

func (*IdSelector) simpleSelector() {}

type ClassSelector struct {
	base
	Name string
}

func (*ClassSelector) simpleSelector() {}

// AttributeSelector is `[name]`, `[name=value]`, `[name^=value i]`, etc.
type AttributeSelector struct {
	base
	Name    string
	Matcher string // "", "=", "~=", "^=", "$=", "*=", "|="
	Value   string
	Flags   string
}

func (*AttributeSelector) simpleSelector() {}

type PseudoElementSelector struct {
	base
	Name string
}

func (*PseudoElementSelector) simpleSelector() {}

// PseudoClassSelector is `:name` or `:name(selector-list)`.
type PseudoClassSelector struct {
	base
	Name string
	Args *SelectorList // nil when no parenthesized args
}

func (*PseudoClassSelector) simpleSelector() {}

type Percentage struct {
	base
	Value string
}

func (*Percentage) simpleSelector() {}

// Nth is an `nth-child`-style expression, only valid inside pseudo-class
// arguments.
type Nth struct {
	base
	Value string
}

func (*Nth) simpleSelector() {}

// NestingSelector is `&`.
type NestingSelector struct {
	base
	Name string
}

func (*NestingSelector) simpleSelector() {}

func NewTypeSelector(span loc.Span, name string) *TypeSelector {
	return &TypeSelector{base{span}, name}
}

func NewStyleSheet(span loc.Span, attrs []Attribute, children []StyleSheetChild, content StyleSheetContent) *StyleSheet {
	return &StyleSheet{base: base{span}, Attributes: attrs, Children: children, Content: content}
}
