package parser

import (
	"regexp"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

var (
	regexClosingScriptTag           = regexp.MustCompile(`</script\s*>`)
	regexStartsWithClosingScriptTag = regexp.MustCompile(`^</script\s*>`)
)

var scriptReservedAttributes = map[string]bool{
	"server": true, "client": true, "worker": true, "test": true, "default": true,
}

var scriptAllowedAttributes = map[string]bool{
	"context": true, "generics": true, "lang": true, "module": true,
}

// parseScript captures the body up to `</script>`, hands it to the
// external program parser, shifts the returned spans into file
// coordinates, and validates the opening tag's attributes (§4.F, §6).
func (p *Parser) parseScript(start int, attributes []ast.Attribute) (*ast.Script, error) {
	scriptStart := p.offset
	data := p.eatUntil(regexClosingScriptTag)
	if p.remain() == "" {
		return nil, parseerr.New(parseerr.ElementUnclosed,
			loc.Span{Start: p.offset, End: p.offset}, "`<script>` was left open")
	}
	if _, err := p.expectRegex(regexStartsWithClosingScriptTag); err != nil {
		return nil, err
	}
	program, err := p.parseProgram(data, scriptStart)
	if err != nil {
		return nil, err
	}

	context := ast.ScriptDefault
	for i := range attributes {
		attr := &attributes[i]
		if attr.Kind != ast.NormalAttribute {
			continue
		}
		name := attr.Name
		if scriptReservedAttributes[name] {
			return nil, parseerr.New(parseerr.ScriptReservedAttribute,
				attr.KeyLoc, "`%s` is a reserved attribute on `<script>`", name)
		}
		if !scriptAllowedAttributes[name] {
			p.h.AppendWarning(parseerr.New(parseerr.ScriptReservedAttribute,
				attr.KeyLoc, "unrecognized `<script>` attribute `%s`", name))
			continue
		}
		switch name {
		case "module":
			if attr.Value.Kind != ast.ValueTrue {
				return nil, parseerr.New(parseerr.ScriptInvalidAttributeValue,
					attr.KeyLoc, "if present, the value of the `module` attribute must be true")
			}
			context = ast.ScriptModule
		case "context":
			value, ok := attr.Value.StaticValue()
			if !ok {
				return nil, parseerr.New(parseerr.ScriptInvalidContext,
					attr.Span(), "the `context` attribute must be a static string")
			}
			if value != "module" {
				return nil, parseerr.New(parseerr.ScriptInvalidContext,
					attr.Span(), "if present, the value of the `context` attribute must be \"module\"")
			}
			context = ast.ScriptModule
		}
	}

	script := &ast.Script{Context: context, Program: program, Attributes: attributes}
	script.SpanVal = loc.Span{Start: start, End: p.offset}
	return script, nil
}
