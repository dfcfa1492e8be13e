package parser

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

// parseCSSValue scans a declaration value or at-rule prelude up to the
// first `;`, `{`, or `}` outside parentheses. The scan is token-based:
// `url(...)` runs and quoted strings arrive as single tokens, so
// terminator characters inside them cannot end the value.
func (p *Parser) parseCSSValue() (string, error) {
	lexer := css.NewLexer(parse.NewInputString(p.remain()))
	consumed := 0
	depth := 0
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			// end of input before a terminator
			return "", parseerr.New(parseerr.UnexpectedEOF,
				loc.Span{Start: p.offset + consumed, End: p.offset + consumed},
				"unexpected end of input in a style value")
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
			if depth == 0 {
				value := strings.TrimSpace(p.remain()[:consumed])
				p.offset += consumed
				return value, nil
			}
		}
		consumed += len(data)
	}
}
