package ast

import "github.com/veltra-dev/compiler/internal/jsast"

// Namespace is the mapped short form of the `namespace` option (§6).
type Namespace uint8

const (
	NamespaceHTML Namespace = iota
	NamespaceMathML
	NamespaceSVG
)

// CustomElementShadow is the `shadow` key of an object-literal
// `customElement` option.
type CustomElementShadow uint8

const (
	ShadowUnset CustomElementShadow = iota
	ShadowOpen
	ShadowNone
)

// CustomElement is the validated `customElement` option, either a bare
// tag-name string or the object-literal form with props/shadow/extend.
type CustomElement struct {
	Tag    string
	Props  jsast.Expression // object literal, shape not deeply validated
	Shadow CustomElementShadow
	Extend jsast.Expression
}

// Options is parsed from <svelte:options> attributes (§3, §6).
type Options struct {
	base
	Runes              *bool
	CustomElement      *CustomElement
	Namespace          Namespace
	Immutable          *bool
	PreserveWhitespace *bool
	Accessors          *bool
}

// ReservedCustomElementNames blocks the standard built-in tag names a
// custom element must not shadow (§6).
var ReservedCustomElementNames = map[string]bool{
	"annotation-xml":   true,
	"color-profile":    true,
	"font-face":        true,
	"font-face-src":    true,
	"font-face-uri":    true,
	"font-face-format": true,
	"font-face-name":   true,
	"missing-glyph":    true,
}
