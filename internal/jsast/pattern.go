package jsast

import "errors"

// letPrefix is prepended to a bare pattern so the grammar sees it in a
// declaration position; the resulting spans are shifted back so they are
// relative to the start of text.
const letPrefix = "let "

// ParsePattern parses text as a binding pattern (an identifier, an array
// or object destructuring, possibly with defaults and rests). Spans in
// the returned pattern are relative to the start of text; the caller
// applies SpanOffset to translate them into file coordinates.
func (p *TreeSitterParser) ParsePattern(text string, sourceType SourceType) (Pattern, []error) {
	prog, errs := p.ParseProgram(letPrefix+text+" = void 0;", sourceType)
	if prog == nil {
		return nil, errs
	}
	for _, stmt := range prog.Body {
		decl, ok := stmt.(*VariableDeclaration)
		if !ok || len(decl.Declarations) == 0 {
			continue
		}
		pat := decl.Declarations[0].Id
		if pat == nil {
			break
		}
		SpanOffset(pat, -len(letPrefix))
		return pat, nil
	}
	if len(errs) == 0 {
		errs = []error{errors.New("expected a binding pattern")}
	}
	return nil, errs
}

// ParseParams parses text as the inside of a parameter list. Spans in the
// returned patterns are relative to the start of text.
func (p *TreeSitterParser) ParseParams(text string, sourceType SourceType) ([]Pattern, []error) {
	expr, errs := p.ParseExpression("("+text+") => void 0", sourceType)
	arrow, ok := expr.(*ArrowFunctionExpression)
	if !ok {
		if len(errs) == 0 {
			errs = []error{errors.New("expected a parameter list")}
		}
		return nil, errs
	}
	for _, param := range arrow.Params {
		SpanOffset(param, -1)
	}
	return arrow.Params, nil
}
