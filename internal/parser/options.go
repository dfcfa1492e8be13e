package parser

import (
	"regexp"
	"strings"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

const (
	namespaceMathMLURI = "http://www.w3.org/1998/Math/MathML"
	namespaceSVGURI    = "http://www.w3.org/2000/svg"
)

// regexValidCustomElementName: lowercase start, at least one hyphen, and
// only the PCENChar set allowed by the custom-elements spec.
var regexValidCustomElementName = func() *regexp.Regexp {
	tagNameChar := `[a-z0-9_.\x{B7}\x{C0}-\x{D6}\x{D8}-\x{F6}\x{F8}-\x{37D}\x{37F}-\x{1FFF}\x{200C}-\x{200D}\x{203F}-\x{2040}\x{2070}-\x{218F}\x{2C00}-\x{2FEF}\x{3001}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFFD}\x{10000}-\x{EFFFF}-]`
	return regexp.MustCompile(`^[a-z]` + tagNameChar + `*-` + tagNameChar + `*$`)
}()

// parseSvelteOptions validates <svelte:options> attributes bit-exactly
// per §6 and stores the result on the parser for the root.
func (p *Parser) parseSvelteOptions(span loc.Span, attributes []ast.Attribute, fragment *ast.Fragment) error {
	if len(fragment.Nodes) > 0 {
		for _, node := range fragment.Nodes {
			if text, ok := node.(*ast.Text); ok && !regexNonWhitespace.MatchString(text.Raw) {
				continue
			}
			return parseerr.New(parseerr.SvelteMetaInvalidContent, node.Span(),
				"<svelte:options> cannot have children")
		}
	}

	options := &ast.Options{}
	options.SpanVal = span
	for i := range attributes {
		attr := &attributes[i]
		if attr.Kind != ast.NormalAttribute {
			return parseerr.New(parseerr.SvelteOptionsInvalidAttribute, attr.Span(),
				"<svelte:options> can only receive static attributes")
		}
		switch attr.Name {
		case "runes":
			v := attributeBoolean(attr.Value)
			options.Runes = &v
		case "tag":
			return parseerr.New(parseerr.SvelteOptionsDeprecatedTag, attr.Span(),
				"\"tag\" option is deprecated — use \"customElement\" instead")
		case "customElement":
			ce, err := p.parseCustomElementOption(attr)
			if err != nil {
				return err
			}
			options.CustomElement = ce
		case "namespace":
			value, ok := attr.Value.StaticValue()
			if !ok {
				return parseerr.New(parseerr.SvelteOptionsInvalidAttributeValue, attr.Span(),
					`value must be one of "html", "mathml" or "svg"`)
			}
			switch value {
			case namespaceSVGURI, "svg":
				options.Namespace = ast.NamespaceSVG
			case namespaceMathMLURI, "mathml":
				options.Namespace = ast.NamespaceMathML
			case "html":
				options.Namespace = ast.NamespaceHTML
			default:
				return parseerr.New(parseerr.SvelteOptionsInvalidAttributeValue, attr.Span(),
					`value must be one of "html", "mathml" or "svg"`)
			}
		case "css":
			value, ok := attr.Value.StaticValue()
			if !ok || value != "injected" {
				return parseerr.New(parseerr.SvelteOptionsInvalidAttributeValue, attr.Span(),
					`value must be "injected"`)
			}
		case "immutable":
			v := attributeBoolean(attr.Value)
			options.Immutable = &v
		case "preserveWhitespace":
			v := attributeBoolean(attr.Value)
			options.PreserveWhitespace = &v
		case "accessors":
			v := attributeBoolean(attr.Value)
			options.Accessors = &v
		default:
			return parseerr.New(parseerr.SvelteOptionsUnknownAttribute, attr.Span(),
				"`<svelte:options>` unknown attribute `%s`", attr.Name)
		}
	}
	p.options = options
	return nil
}

func (p *Parser) parseCustomElementOption(attr *ast.Attribute) (*ast.CustomElement, error) {
	if tag, ok := attr.Value.StaticValue(); ok {
		if err := validateCustomElementTag(attr.Span(), tag); err != nil {
			return nil, err
		}
		return &ast.CustomElement{Tag: tag}, nil
	}

	invalid := parseerr.New(parseerr.SvelteOptionsInvalidCustomElement, attr.Span(),
		`"customElement" must be a string literal or an object literal`)
	expr, ok := directiveExpression(attr.Value)
	if !ok || expr == nil {
		return nil, invalid
	}
	obj, ok := expr.(*jsast.ObjectExpression)
	if !ok {
		// a plain string literal in braces is also accepted
		if lit, isLit := expr.(*jsast.Literal); isLit && lit.Kind == jsast.StringLiteral {
			tag := strings.Trim(lit.Raw, "\"'`")
			if err := validateCustomElementTag(attr.Span(), tag); err != nil {
				return nil, err
			}
			return &ast.CustomElement{Tag: tag}, nil
		}
		return nil, invalid
	}

	ce := &ast.CustomElement{}
	for _, prop := range obj.Properties {
		if prop.Spread || prop.Computed {
			return nil, invalid
		}
		key, ok := prop.Key.(*jsast.Identifier)
		if !ok {
			return nil, invalid
		}
		switch key.Name {
		case "tag":
			lit, isLit := prop.Value.(*jsast.Literal)
			if !isLit || lit.Kind != jsast.StringLiteral {
				return nil, parseerr.New(parseerr.SvelteOptionsInvalidTagName, attr.Span(),
					"tag name must be a string literal")
			}
			tag := strings.Trim(lit.Raw, "\"'`")
			if err := validateCustomElementTag(attr.Span(), tag); err != nil {
				return nil, err
			}
			ce.Tag = tag
		case "props":
			obj, isObj := prop.Value.(*jsast.ObjectExpression)
			if !isObj {
				return nil, parseerr.New(parseerr.SvelteOptionsInvalidCustomElementProps,
					attr.Span(), `"props" must be a statically analyzable object literal`)
			}
			ce.Props = obj
		case "shadow":
			lit, isLit := prop.Value.(*jsast.Literal)
			value := ""
			if isLit && lit.Kind == jsast.StringLiteral {
				value = strings.Trim(lit.Raw, "\"'`")
			}
			switch value {
			case "open":
				ce.Shadow = ast.ShadowOpen
			case "none":
				ce.Shadow = ast.ShadowNone
			default:
				return nil, parseerr.New(parseerr.SvelteOptionsInvalidCustomElementShadow,
					attr.Span(), `"shadow" must be either "open" or "none"`)
			}
		case "extend":
			ce.Extend = prop.Value
		}
	}
	return ce, nil
}

func validateCustomElementTag(span loc.Span, tag string) error {
	if !regexValidCustomElementName.MatchString(tag) {
		return parseerr.New(parseerr.SvelteOptionsInvalidTagName, span,
			"tag name must be lowercase and hyphenated")
	}
	if ast.ReservedCustomElementNames[tag] {
		return parseerr.New(parseerr.SvelteOptionsReservedTagName, span,
			"tag name is reserved")
	}
	return nil
}

// attributeBoolean: presence without a value means true; otherwise the
// value must statically be "true".
func attributeBoolean(value ast.AttributeValue) bool {
	if value.Kind == ast.ValueTrue {
		return true
	}
	if s, ok := value.StaticValue(); ok {
		return s == "true"
	}
	if value.Kind == ast.ValueExpressionTag {
		if lit, ok := value.Expr.Expression.(*jsast.Literal); ok && lit.Kind == jsast.BooleanLiteral {
			return lit.Raw == "true"
		}
	}
	return false
}
