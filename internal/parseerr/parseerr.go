// Package parseerr defines the error-kind taxonomy raised by the parser,
// analyzer, and transformer, each carrying a span into the source text.
package parseerr

import (
	"fmt"

	"github.com/veltra-dev/compiler/internal/loc"
)

// Kind enumerates every diagnostic kind the core can raise. Values are
// grouped by the subsystem that raises them, mirroring the grouping used
// by the cursor, attribute/element/block/script sub-parsers, the options
// validator, and the CSS sub-parser.
type Kind uint32

const (
	_ Kind = iota

	// Lexical primitives (4.A)
	ExpectedChar
	ExpectedStr
	ExpectedRegex
	UnexpectedEOF
	UnexpectedChar

	// Embedded-program collaborator (4.A/4.F, external contract)
	ParseProgram
	ParseExpression
	ParseBindingPattern
	ParseVariableDeclaration

	// Attribute/directive sub-parser (4.B)
	AttributeEmptyShorthand
	AttributeDuplicate
	DirectiveMissingName
	DirectiveInvalidValue

	// Element sub-parser (4.C)
	ElementUnclosed
	ExpectedClosingTag
	ElementInvalidClosingTag
	ElementInvalidClosingTagAutoClosed
	TagInvalidName

	// Meta-tag / svelte: placement (4.C)
	SvelteMetaInvalidTag
	SvelteMetaDuplicate
	SvelteMetaInvalidPlacement
	SvelteMetaInvalidContent

	// <svelte:options> validation (§6)
	SvelteOptionsInvalidAttribute
	SvelteOptionsDeprecatedTag
	SvelteOptionsInvalidCustomElement
	SvelteOptionsInvalidCustomElementProps
	SvelteOptionsInvalidCustomElementShadow
	SvelteOptionsInvalidTagName
	SvelteOptionsReservedTagName
	SvelteOptionsInvalidAttributeValue
	SvelteOptionsUnknownAttribute

	// Script sub-parser (4.F)
	ScriptDuplicate
	ScriptReservedAttribute
	ScriptInvalidAttributeValue
	ScriptInvalidContext

	// CSS sub-parser (4.E)
	StyleDuplicate
	CssExpectedIdentifier
	CssEmptyDeclaration
	CssSelectorInvalid

	// Block sub-parser (4.D)
	BlockInvalidPlacement
	BlockInvalidElseif
	BlockUnclosed
	BlockDuplicateClause
	ExpectedBlockType
	ExpectedEachBlockAs

	// Tag sub-parser (4.G)
	TagInvalidPlacement
	ExpectedTagType
	DebugTagInvalidArguments
	ConstTagInvalidExpression
	RenderTagInvalidExpression
)

var kindNames = map[Kind]string{
	ExpectedChar:                            "ExpectedChar",
	ExpectedStr:                             "ExpectedStr",
	ExpectedRegex:                           "ExpectedRegex",
	UnexpectedEOF:                           "UnexpectedEOF",
	UnexpectedChar:                          "UnexpectedChar",
	ParseProgram:                            "ParseProgram",
	ParseExpression:                         "ParseExpression",
	ParseBindingPattern:                     "ParseBindingPattern",
	ParseVariableDeclaration:                "ParseVariableDeclaration",
	AttributeEmptyShorthand:                 "AttributeEmptyShorthand",
	AttributeDuplicate:                      "AttributeDuplicate",
	DirectiveMissingName:                    "DirectiveMissingName",
	DirectiveInvalidValue:                   "DirectiveInvalidValue",
	ElementUnclosed:                         "ElementUnclosed",
	ExpectedClosingTag:                      "ExpectedClosingTag",
	ElementInvalidClosingTag:                "ElementInvalidClosingTag",
	ElementInvalidClosingTagAutoClosed:      "ElementInvalidClosingTagAutoClosed",
	TagInvalidName:                          "TagInvalidName",
	SvelteMetaInvalidTag:                    "SvelteMetaInvalidTag",
	SvelteMetaDuplicate:                     "SvelteMetaDuplicate",
	SvelteMetaInvalidPlacement:              "SvelteMetaInvalidPlacement",
	SvelteMetaInvalidContent:                "SvelteMetaInvalidContent",
	SvelteOptionsInvalidAttribute:           "SvelteOptionsInvalidAttribute",
	SvelteOptionsDeprecatedTag:              "SvelteOptionsDeprecatedTag",
	SvelteOptionsInvalidCustomElement:       "SvelteOptionsInvalidCustomElement",
	SvelteOptionsInvalidCustomElementProps:  "SvelteOptionsInvalidCustomElementProps",
	SvelteOptionsInvalidCustomElementShadow: "SvelteOptionsInvalidCustomElementShadow",
	SvelteOptionsInvalidTagName:             "SvelteOptionsInvalidTagName",
	SvelteOptionsReservedTagName:            "SvelteOptionsReservedTagName",
	SvelteOptionsInvalidAttributeValue:      "SvelteOptionsInvalidAttributeValue",
	SvelteOptionsUnknownAttribute:           "SvelteOptionsUnknownAttribute",
	ScriptDuplicate:                         "ScriptDuplicate",
	ScriptReservedAttribute:                 "ScriptReservedAttribute",
	ScriptInvalidAttributeValue:             "ScriptInvalidAttributeValue",
	ScriptInvalidContext:                    "ScriptInvalidContext",
	StyleDuplicate:                          "StyleDuplicate",
	CssExpectedIdentifier:                   "CssExpectedIdentifier",
	CssEmptyDeclaration:                     "CssEmptyDeclaration",
	CssSelectorInvalid:                      "CssSelectorInvalid",
	BlockInvalidPlacement:                   "BlockInvalidPlacement",
	BlockInvalidElseif:                      "BlockInvalidElseif",
	BlockUnclosed:                           "BlockUnclosed",
	BlockDuplicateClause:                    "BlockDuplicateClause",
	ExpectedBlockType:                       "ExpectedBlockType",
	ExpectedEachBlockAs:                     "ExpectedEachBlockAs",
	TagInvalidPlacement:                     "TagInvalidPlacement",
	ExpectedTagType:                         "ExpectedTagType",
	DebugTagInvalidArguments:                "DebugTagInvalidArguments",
	ConstTagInvalidExpression:               "ConstTagInvalidExpression",
	RenderTagInvalidExpression:              "RenderTagInvalidExpression",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint32(k))
}

// Error is a diagnostic raised anywhere in the core. It always carries a
// span; embedded-program diagnostics are wrapped rather than flattened so
// the original messages survive.
type Error struct {
	Kind    Kind
	Span    loc.Span
	Message string
	Wrapped []error // external program parser diagnostics, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() []error {
	return e.Wrapped
}

// New builds a plain Error with a message.
func New(kind Kind, span loc.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that carries diagnostics surfaced by the external
// program parser, annotated with the enclosing span.
func Wrap(kind Kind, span loc.Span, wrapped []error) *Error {
	return &Error{Kind: kind, Span: span, Wrapped: wrapped}
}
