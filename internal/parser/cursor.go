package parser

import (
	"regexp"
	"unicode/utf8"

	"github.com/veltra-dev/compiler/internal/loc"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

// The lexical primitives: an offset-indexed cursor over the source text.
// Offsets are byte positions; "eat"/"match" operations treat the source
// as UTF-8. There is no backtracking beyond explicit offset rewinds in
// the sub-parsers.

var (
	regexNonWhitespace     = regexp.MustCompile(`\S`)
	regexStartWholeComment = regexp.MustCompile(`(^<!--(?s:.)*?-->)|(^/\*(?s:.)*?\*/)`)
)

func (p *Parser) remain() string {
	return p.source[p.offset:]
}

func (p *Parser) peek() (rune, bool) {
	if p.offset >= len(p.source) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(p.remain())
	return r, true
}

func (p *Parser) next() (rune, bool) {
	if p.offset >= len(p.source) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(p.remain())
	p.offset += size
	return r, true
}

func (p *Parser) eat(ch rune) bool {
	if r, ok := p.peek(); ok && r == ch {
		p.offset += utf8.RuneLen(ch)
		return true
	}
	return false
}

func (p *Parser) matchCh(ch rune) bool {
	r, ok := p.peek()
	return ok && r == ch
}

func (p *Parser) matchStr(s string) bool {
	end := p.offset + len(s)
	if end > len(p.source) {
		return false
	}
	return p.source[p.offset:end] == s
}

func (p *Parser) eatStr(s string) bool {
	if p.matchStr(s) {
		p.offset += len(s)
		return true
	}
	return false
}

// matchRegex reports the text matched by re at the cursor without
// consuming it. Anchored patterns (`^...`) are the callers' concern.
func (p *Parser) matchRegex(re *regexp.Regexp) (string, bool) {
	m := re.FindString(p.remain())
	if m == "" {
		// distinguish "no match" from "empty match"
		if re.FindStringIndex(p.remain()) == nil {
			return "", false
		}
	}
	return m, true
}

func (p *Parser) eatRegex(re *regexp.Regexp) (string, bool) {
	idx := re.FindStringIndex(p.remain())
	if idx == nil || idx[0] != 0 {
		return "", false
	}
	m := p.remain()[idx[0]:idx[1]]
	p.offset += idx[1]
	return m, true
}

// eatUntil consumes and returns the slice up to but not including the
// first match of re; empty if the regex matches immediately or not at
// all past end of input (in which case nothing is consumed).
func (p *Parser) eatUntil(re *regexp.Regexp) string {
	idx := re.FindStringIndex(p.remain())
	if idx == nil {
		return ""
	}
	out := p.remain()[:idx[0]]
	p.offset += idx[0]
	return out
}

func (p *Parser) expect(ch rune) error {
	r, ok := p.next()
	if !ok {
		return parseerr.New(parseerr.UnexpectedEOF, loc.Span{Start: p.offset, End: p.offset},
			"expected `%c`", ch)
	}
	if r != ch {
		p.offset -= utf8.RuneLen(r)
		return parseerr.New(parseerr.ExpectedChar, loc.Span{Start: p.offset, End: p.offset},
			"expected `%c`, found `%c`", ch, r)
	}
	return nil
}

func (p *Parser) expectStr(s string) error {
	if p.eatStr(s) {
		return nil
	}
	return parseerr.New(parseerr.ExpectedStr, loc.Span{Start: p.offset, End: p.offset},
		"expected `%s`", s)
}

func (p *Parser) expectRegex(re *regexp.Regexp) (string, error) {
	if m, ok := p.eatRegex(re); ok {
		return m, nil
	}
	return "", parseerr.New(parseerr.ExpectedRegex, loc.Span{Start: p.offset, End: p.offset},
		"expected a match for `%s`", re)
}

func (p *Parser) expectWhitespace() error {
	r, ok := p.peek()
	if !ok || !isWhitespace(r) {
		return parseerr.New(parseerr.ExpectedChar, loc.Span{Start: p.offset, End: p.offset},
			"expected whitespace")
	}
	p.skipWhitespace()
	return nil
}

func (p *Parser) skipWhitespace() {
	idx := regexNonWhitespace.FindStringIndex(p.remain())
	if idx == nil {
		p.offset = len(p.source)
		return
	}
	p.offset += idx[0]
}

// skipCommentOrWhitespace alternately skips whitespace and leading
// <!-- ... --> or /* ... */ comments.
func (p *Parser) skipCommentOrWhitespace() {
	p.skipWhitespace()
	for {
		m, ok := p.eatRegex(regexStartWholeComment)
		if !ok || m == "" {
			return
		}
		p.skipWhitespace()
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
