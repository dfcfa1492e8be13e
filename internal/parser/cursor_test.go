package parser

import (
	"regexp"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/veltra-dev/compiler/internal/handler"
)

func newCursor(source string) *Parser {
	return New(source, handler.NewHandler(source, "test.svelte"))
}

func TestCursorEatAndMatch(t *testing.T) {
	p := newCursor("<div>")
	assert.Assert(t, p.matchCh('<'))
	assert.Assert(t, p.eat('<'))
	assert.Assert(t, !p.eat('<'))
	assert.Assert(t, p.matchStr("div"))
	assert.Assert(t, p.eatStr("div"))
	assert.Equal(t, p.offset, 4)

	r, ok := p.peek()
	assert.Assert(t, ok)
	assert.Equal(t, r, '>')
}

func TestCursorEatUntil(t *testing.T) {
	p := newCursor("hello<world")
	got := p.eatUntil(regexp.MustCompile(`<`))
	assert.Equal(t, got, "hello")
	assert.Equal(t, p.offset, 5)

	// no match consumes nothing
	p2 := newCursor("hello")
	assert.Equal(t, p2.eatUntil(regexp.MustCompile(`<`)), "")
	assert.Equal(t, p2.offset, 0)
}

func TestCursorExpect(t *testing.T) {
	p := newCursor("ab")
	assert.NilError(t, p.expect('a'))
	err := p.expect('x')
	assert.Assert(t, err != nil)
	// a failed expect leaves the cursor where it was
	assert.Equal(t, p.offset, 1)
}

func TestCursorSkipCommentOrWhitespace(t *testing.T) {
	p := newCursor("  <!-- one -->  /* two */  x")
	p.skipCommentOrWhitespace()
	r, ok := p.peek()
	assert.Assert(t, ok)
	assert.Equal(t, r, 'x')
}

func TestCursorUTF8(t *testing.T) {
	p := newCursor("héllo")
	r, _ := p.next()
	assert.Equal(t, r, 'h')
	r, _ = p.next()
	assert.Equal(t, r, 'é')
	// offsets are byte positions
	assert.Equal(t, p.offset, 3)
}

func TestReadExpressionText(t *testing.T) {
	p := newCursor(`a + {b: "}"}.b}rest`)
	text, start, err := p.readExpressionText()
	assert.NilError(t, err)
	assert.Equal(t, start, 0)
	assert.Equal(t, text, `a + {b: "}"}.b`)
	// the terminator is not consumed
	assert.Assert(t, p.matchCh('}'))
}

func TestSplitTopLevelKeyword(t *testing.T) {
	left, right, ok := splitTopLevelKeyword("items as item", "as")
	assert.Assert(t, ok)
	assert.Equal(t, left, "items ")
	assert.Equal(t, right, " item")

	// not split inside brackets or words
	_, _, ok = splitTopLevelKeyword("basket.items", "as")
	assert.Assert(t, !ok)
	_, _, ok = splitTopLevelKeyword("f(x as y)", "as")
	assert.Assert(t, !ok)
}
