package parser

import (
	"testing"

	"github.com/lithammer/dedent"
	"gotest.tools/v3/assert"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/handler"
	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/parseerr"
)

func parseDoc(t *testing.T, source string) *ast.Root {
	t.Helper()
	h := handler.NewHandler(source, "test.svelte")
	result := New(source, h).Parse()
	for _, err := range result.Errors {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return result.Root
}

func parseErrKind(t *testing.T, source string) parseerr.Kind {
	t.Helper()
	h := handler.NewHandler(source, "test.svelte")
	result := New(source, h).Parse()
	if len(result.Errors) == 0 {
		t.Fatalf("expected a parse error for %q", source)
	}
	perr, ok := result.Errors[len(result.Errors)-1].(*parseerr.Error)
	assert.Assert(t, ok, "expected a *parseerr.Error, got %T", result.Errors[0])
	return perr.Kind
}

func TestSelfClosingAndText(t *testing.T) {
	root := parseDoc(t, `<div/>hello`)
	assert.Equal(t, len(root.Fragment.Nodes), 2)

	div, ok := root.Fragment.Nodes[0].(*ast.Element)
	assert.Assert(t, ok)
	assert.Equal(t, div.Kind, ast.RegularElement)
	assert.Equal(t, div.Name, "div")
	assert.Equal(t, len(div.Fragment.Nodes), 0)
	assert.Equal(t, div.Span().Start, 0)
	assert.Equal(t, div.Span().End, 6)

	text, ok := root.Fragment.Nodes[1].(*ast.Text)
	assert.Assert(t, ok)
	assert.Equal(t, text.Raw, "hello")
	assert.Equal(t, text.Span().Start, 6)
	assert.Equal(t, text.Span().End, 11)
}

func TestShorthandAttribute(t *testing.T) {
	root := parseDoc(t, `<a {href}/>`)
	a := root.Fragment.Nodes[0].(*ast.Element)
	assert.Equal(t, len(a.Attributes), 1)

	attr := a.Attributes[0]
	assert.Equal(t, attr.Kind, ast.NormalAttribute)
	assert.Equal(t, attr.Name, "href")
	assert.Equal(t, attr.Value.Kind, ast.ValueExpressionTag)
	ident, ok := attr.Value.Expr.Expression.(*jsast.Identifier)
	assert.Assert(t, ok)
	assert.Equal(t, ident.Name, "href")
}

func TestDirectiveWithoutValue(t *testing.T) {
	root := parseDoc(t, `<p class:active/>`)
	p := root.Fragment.Nodes[0].(*ast.Element)
	assert.Equal(t, len(p.Attributes), 1)

	attr := p.Attributes[0]
	assert.Equal(t, attr.Kind, ast.ClassDirective)
	assert.Equal(t, attr.Name, "active")
	ident, ok := attr.Expression.(*jsast.Identifier)
	assert.Assert(t, ok)
	assert.Equal(t, ident.Name, "active")
}

func TestTransitionDirectiveIntroOutro(t *testing.T) {
	root := parseDoc(t, `<p in:fade out:fly transition:slide|local={x}/>`)
	p := root.Fragment.Nodes[0].(*ast.Element)
	assert.Equal(t, len(p.Attributes), 3)

	in := p.Attributes[0]
	assert.Equal(t, in.Kind, ast.TransitionDirective)
	assert.Assert(t, in.Intro && !in.Outro)

	out := p.Attributes[1]
	assert.Assert(t, !out.Intro && out.Outro)

	tr := p.Attributes[2]
	assert.Assert(t, tr.Intro && tr.Outro)
	assert.DeepEqual(t, tr.Modifiers, []string{"local"})
}

func TestAutoClose(t *testing.T) {
	source := `<p>one<p>two</p>`
	root := parseDoc(t, source)
	assert.Equal(t, len(root.Fragment.Nodes), 2)

	first := root.Fragment.Nodes[0].(*ast.Element)
	assert.Equal(t, first.Name, "p")
	assert.Equal(t, first.Span().End, 6, "first <p> ends where the second opens")
	assert.Equal(t, len(first.Fragment.Nodes), 1)
	assert.Equal(t, first.Fragment.Nodes[0].(*ast.Text).Raw, "one")

	second := root.Fragment.Nodes[1].(*ast.Element)
	assert.Equal(t, second.Name, "p")
	assert.Equal(t, second.Fragment.Nodes[0].(*ast.Text).Raw, "two")
}

func TestImplicitCloseByParent(t *testing.T) {
	root := parseDoc(t, `<div><p>text</div>`)
	div := root.Fragment.Nodes[0].(*ast.Element)
	assert.Equal(t, div.Name, "div")
	p := div.Fragment.Nodes[0].(*ast.Element)
	assert.Equal(t, p.Name, "p")
	assert.Equal(t, p.Fragment.Nodes[0].(*ast.Text).Raw, "text")
}

func TestIfElseIfElse(t *testing.T) {
	root := parseDoc(t, `{#if a}A{:else if b}B{:else}C{/if}`)
	assert.Equal(t, len(root.Fragment.Nodes), 1)

	outer := root.Fragment.Nodes[0].(*ast.IfBlock)
	assert.Assert(t, !outer.Elseif)
	assert.Equal(t, outer.Test.(*jsast.Identifier).Name, "a")
	assert.Equal(t, outer.Consequent.Nodes[0].(*ast.Text).Raw, "A")

	assert.Equal(t, len(outer.Alternate.Nodes), 1)
	inner := outer.Alternate.Nodes[0].(*ast.IfBlock)
	assert.Assert(t, inner.Elseif)
	assert.Equal(t, inner.Test.(*jsast.Identifier).Name, "b")
	assert.Equal(t, inner.Consequent.Nodes[0].(*ast.Text).Raw, "B")
	assert.Equal(t, inner.Alternate.Nodes[0].(*ast.Text).Raw, "C")
}

func TestUnclosedIfBlock(t *testing.T) {
	assert.Equal(t, parseErrKind(t, `{#if a}A`), parseerr.BlockUnclosed)
}

func TestEachBlock(t *testing.T) {
	root := parseDoc(t, `{#each items as item, i (item.id)}<li>{item}</li>{:else}empty{/each}`)
	each := root.Fragment.Nodes[0].(*ast.EachBlock)

	assert.Equal(t, each.Expression.(*jsast.Identifier).Name, "items")
	assert.Equal(t, each.Context.(*jsast.Identifier).Name, "item")
	assert.Equal(t, each.Index.Name, "i")
	key, ok := each.Key.(*jsast.MemberExpression)
	assert.Assert(t, ok)
	assert.Equal(t, key.Object.(*jsast.Identifier).Name, "item")
	assert.Equal(t, len(each.Body.Nodes), 1)
	assert.Equal(t, each.Fallback.Nodes[0].(*ast.Text).Raw, "empty")
}

func TestEachBlockDestructuring(t *testing.T) {
	root := parseDoc(t, `{#each pairs as [a, b]}{a}{/each}`)
	each := root.Fragment.Nodes[0].(*ast.EachBlock)
	pat, ok := each.Context.(*jsast.ArrayPattern)
	assert.Assert(t, ok)
	assert.Equal(t, len(pat.Elements), 2)
}

func TestEachWithoutAs(t *testing.T) {
	assert.Equal(t, parseErrKind(t, `{#each items}x{/each}`), parseerr.ExpectedEachBlockAs)
}

func TestAwaitBlock(t *testing.T) {
	root := parseDoc(t, `{#await promise}waiting{:then value}{value}{:catch err}{err}{/await}`)
	await := root.Fragment.Nodes[0].(*ast.AwaitBlock)
	assert.Equal(t, await.Expression.(*jsast.Identifier).Name, "promise")
	assert.Equal(t, await.Pending.Nodes[0].(*ast.Text).Raw, "waiting")
	assert.Equal(t, await.Value.(*jsast.Identifier).Name, "value")
	assert.Equal(t, await.Error.(*jsast.Identifier).Name, "err")
	assert.Assert(t, await.Then != nil)
	assert.Assert(t, await.Catch != nil)
}

func TestSnippetBlock(t *testing.T) {
	root := parseDoc(t, `{#snippet row(item, index)}<td>{item}</td>{/snippet}`)
	snippet := root.Fragment.Nodes[0].(*ast.SnippetBlock)
	assert.Equal(t, snippet.Name.Name, "row")
	assert.Equal(t, len(snippet.Params), 2)
	assert.Equal(t, snippet.Params[0].(*jsast.Identifier).Name, "item")
}

func TestKeyBlock(t *testing.T) {
	root := parseDoc(t, `{#key id}<span/>{/key}`)
	key := root.Fragment.Nodes[0].(*ast.KeyBlock)
	assert.Equal(t, key.Expression.(*jsast.Identifier).Name, "id")
	assert.Equal(t, len(key.Body.Nodes), 1)
}

func TestDuplicateAttribute(t *testing.T) {
	assert.Equal(t, parseErrKind(t, `<a href="x" href="y"/>`), parseerr.AttributeDuplicate)
	// bind:x and bare x collide
	assert.Equal(t, parseErrKind(t, `<input value="x" bind:value={v}/>`), parseerr.AttributeDuplicate)
	// a class: directive and the bare class attribute do not
	parseDoc(t, `<p class="red" class:active/>`)
}

func TestSpreadAttribute(t *testing.T) {
	root := parseDoc(t, `<a {...props}/>`)
	attr := root.Fragment.Nodes[0].(*ast.Element).Attributes[0]
	assert.Equal(t, attr.Kind, ast.SpreadAttribute)
	assert.Equal(t, attr.SpreadExpr.(*jsast.Identifier).Name, "props")
}

func TestQuotedInterleavedValue(t *testing.T) {
	root := parseDoc(t, `<a class="btn {kind} lg"/>`)
	attr := root.Fragment.Nodes[0].(*ast.Element).Attributes[0]
	assert.Equal(t, attr.Value.Kind, ast.ValueQuoted)
	assert.Equal(t, len(attr.Value.Parts), 3)
	assert.Equal(t, attr.Value.Parts[0].Text.Raw, "btn ")
	assert.Equal(t, attr.Value.Parts[1].Expr.Expression.(*jsast.Identifier).Name, "kind")
	assert.Equal(t, attr.Value.Parts[2].Text.Raw, " lg")
}

func TestScriptCapture(t *testing.T) {
	source := dedent.Dedent(`
		<script>
			let count = 0;
		</script>
		<p>{count}</p>
	`)
	root := parseDoc(t, source)
	assert.Assert(t, root.Instance != nil)
	assert.Equal(t, root.Instance.Context, ast.ScriptDefault)
	assert.Equal(t, len(root.Instance.Program.Body), 1)
	decl, ok := root.Instance.Program.Body[0].(*jsast.VariableDeclaration)
	assert.Assert(t, ok)
	assert.Equal(t, decl.Kind, "let")
}

func TestScriptSpanOffset(t *testing.T) {
	source := `<script>let x = 1;</script>`
	root := parseDoc(t, source)
	bodyStart := len("<script>")
	bodyEnd := len(source) - len("</script>")
	for _, stmt := range root.Instance.Program.Body {
		assert.Assert(t, stmt.Span().Start >= bodyStart)
		assert.Assert(t, stmt.Span().End <= bodyEnd)
	}
}

func TestModuleScript(t *testing.T) {
	root := parseDoc(t, `<script module>export const x = 1;</script>`)
	assert.Assert(t, root.Module != nil)
	assert.Equal(t, root.Module.Context, ast.ScriptModule)

	root = parseDoc(t, `<script context="module">const y = 2;</script>`)
	assert.Equal(t, root.Module.Context, ast.ScriptModule)
}

func TestDuplicateScript(t *testing.T) {
	kind := parseErrKind(t, `<script>let a;</script><script>let b;</script>`)
	assert.Equal(t, kind, parseerr.ScriptDuplicate)
}

func TestScriptReservedAttribute(t *testing.T) {
	kind := parseErrKind(t, `<script server>let a;</script>`)
	assert.Equal(t, kind, parseerr.ScriptReservedAttribute)
}

func TestScriptLeadingComment(t *testing.T) {
	root := parseDoc(t, "<!-- doc -->\n<script>let a;</script>")
	assert.Assert(t, root.Instance.LeadingComment != nil)
	assert.Equal(t, root.Instance.LeadingComment.Data, " doc ")
}

func TestSvelteOptions(t *testing.T) {
	root := parseDoc(t, `<svelte:options runes namespace="svg" />`)
	assert.Assert(t, root.Options != nil)
	assert.Assert(t, root.Options.Runes != nil && *root.Options.Runes)
	assert.Equal(t, root.Options.Namespace, ast.NamespaceSVG)
}

func TestSvelteOptionsNamespaceURI(t *testing.T) {
	root := parseDoc(t, `<svelte:options namespace="http://www.w3.org/1998/Math/MathML" />`)
	assert.Equal(t, root.Options.Namespace, ast.NamespaceMathML)
}

func TestSvelteOptionsDeprecatedTag(t *testing.T) {
	kind := parseErrKind(t, `<svelte:options tag="my-thing" />`)
	assert.Equal(t, kind, parseerr.SvelteOptionsDeprecatedTag)
}

func TestSvelteOptionsCustomElement(t *testing.T) {
	root := parseDoc(t, `<svelte:options customElement="my-thing" />`)
	assert.Equal(t, root.Options.CustomElement.Tag, "my-thing")

	kind := parseErrKind(t, `<svelte:options customElement="annotation-xml" />`)
	assert.Equal(t, kind, parseerr.SvelteOptionsReservedTagName)

	kind = parseErrKind(t, `<svelte:options customElement="NotValid" />`)
	assert.Equal(t, kind, parseerr.SvelteOptionsInvalidTagName)
}

func TestSvelteMetaPlacement(t *testing.T) {
	kind := parseErrKind(t, `<div><svelte:head></svelte:head></div>`)
	assert.Equal(t, kind, parseerr.SvelteMetaInvalidPlacement)

	kind = parseErrKind(t, `<svelte:nope/>`)
	assert.Equal(t, kind, parseerr.SvelteMetaInvalidTag)
}

func TestComponentElement(t *testing.T) {
	root := parseDoc(t, `<Widget prop={x}/><ns.Thing/>`)
	first := root.Fragment.Nodes[0].(*ast.Element)
	assert.Equal(t, first.Kind, ast.Component)
	second := root.Fragment.Nodes[1].(*ast.Element)
	assert.Equal(t, second.Kind, ast.Component)
}

func TestVoidElement(t *testing.T) {
	root := parseDoc(t, `<br><img src="x.png">done`)
	assert.Equal(t, len(root.Fragment.Nodes), 3)
	br := root.Fragment.Nodes[0].(*ast.Element)
	assert.Equal(t, br.Name, "br")
	assert.Equal(t, len(br.Fragment.Nodes), 0)
}

func TestComment(t *testing.T) {
	root := parseDoc(t, `<!-- hi -->`)
	comment := root.Fragment.Nodes[0].(*ast.Comment)
	assert.Equal(t, comment.Data, " hi ")
}

func TestTextEntityDecoding(t *testing.T) {
	root := parseDoc(t, `<span>a &amp; b</span>`)
	span := root.Fragment.Nodes[0].(*ast.Element)
	text := span.Fragment.Nodes[0].(*ast.Text)
	assert.Equal(t, text.Raw, "a &amp; b")
	assert.Equal(t, text.Data, "a & b")
}

func TestHtmlAndRenderTags(t *testing.T) {
	root := parseDoc(t, `{@html markup}{@render row(item)}`)
	html := root.Fragment.Nodes[0].(*ast.HtmlTag)
	assert.Equal(t, html.Expression.(*jsast.Identifier).Name, "markup")
	render := root.Fragment.Nodes[1].(*ast.RenderTag)
	_, ok := render.Expression.(*jsast.CallExpression)
	assert.Assert(t, ok)
}

func TestRenderTagRequiresCall(t *testing.T) {
	assert.Equal(t, parseErrKind(t, `{@render foo}`), parseerr.RenderTagInvalidExpression)
}

func TestConstTag(t *testing.T) {
	root := parseDoc(t, `{#each boxes as box}{@const area = box.w * box.h}{area}{/each}`)
	each := root.Fragment.Nodes[0].(*ast.EachBlock)
	constTag := each.Body.Nodes[0].(*ast.ConstTag)
	assert.Equal(t, constTag.Declaration.Id.(*jsast.Identifier).Name, "area")
}

func TestDebugTag(t *testing.T) {
	root := parseDoc(t, `{@debug a, b}`)
	debug := root.Fragment.Nodes[0].(*ast.DebugTag)
	assert.Equal(t, len(debug.Identifiers), 2)
	assert.Equal(t, debug.Identifiers[0].Name, "a")
	assert.Equal(t, debug.Identifiers[1].Name, "b")
}

func TestRootSpanTrimsWhitespace(t *testing.T) {
	root := parseDoc(t, "  <div/>  \n")
	assert.Equal(t, root.Span().Start, 2)
	assert.Equal(t, root.Span().End, 8)
}

func TestStyleSheet(t *testing.T) {
	source := dedent.Dedent(`
		<style>
			.btn { color: red; }
			@media (min-width: 600px) {
				.btn { color: blue; }
			}
			:root { --gap: 0; }
		</style>
	`)
	root := parseDoc(t, source)
	assert.Assert(t, root.CSS != nil)
	assert.Equal(t, len(root.CSS.Children), 3)

	rule, ok := root.CSS.Children[0].(*ast.Rule)
	assert.Assert(t, ok)
	class, ok := rule.Prelude.Children[0].Children[0].Selectors[0].(*ast.ClassSelector)
	assert.Assert(t, ok)
	assert.Equal(t, class.Name, "btn")
	decl := rule.Block.Children[0].(*ast.Declaration)
	assert.Equal(t, decl.Property, "color")
	assert.Equal(t, decl.Value, "red")

	media, ok := root.CSS.Children[1].(*ast.AtRule)
	assert.Assert(t, ok)
	assert.Equal(t, media.Name, "media")
	assert.Equal(t, media.Prelude, "(min-width: 600px)")
	assert.Assert(t, media.Block != nil)

	rootRule := root.CSS.Children[2].(*ast.Rule)
	pseudo, ok := rootRule.Prelude.Children[0].Children[0].Selectors[0].(*ast.PseudoClassSelector)
	assert.Assert(t, ok)
	assert.Equal(t, pseudo.Name, "root")
	custom := rootRule.Block.Children[0].(*ast.Declaration)
	assert.Equal(t, custom.Property, "--gap")
}

func TestStyleSheetSelectors(t *testing.T) {
	source := `<style>ul > li + li, a[href^="https" i]::before { content: ""; }</style>`
	root := parseDoc(t, source)
	list := root.CSS.Children[0].(*ast.Rule).Prelude
	assert.Equal(t, len(list.Children), 2)

	first := list.Children[0]
	assert.Equal(t, len(first.Children), 3)
	assert.Equal(t, first.Children[1].Combinator.Name, ">")
	assert.Equal(t, first.Children[2].Combinator.Name, "+")

	second := list.Children[1]
	sels := second.Children[0].Selectors
	attr, ok := sels[1].(*ast.AttributeSelector)
	assert.Assert(t, ok)
	assert.Equal(t, attr.Name, "href")
	assert.Equal(t, attr.Matcher, "^=")
	assert.Equal(t, attr.Value, "https")
	assert.Equal(t, attr.Flags, "i")
	_, ok = sels[2].(*ast.PseudoElementSelector)
	assert.Assert(t, ok)
}

func TestStyleSheetURLValue(t *testing.T) {
	source := `<style>.bg { background: url("a;b{c}.png") no-repeat; }</style>`
	root := parseDoc(t, source)
	decl := root.CSS.Children[0].(*ast.Rule).Block.Children[0].(*ast.Declaration)
	assert.Equal(t, decl.Property, "background")
	assert.Equal(t, decl.Value, `url("a;b{c}.png") no-repeat`)
}

func TestEmptyDeclaration(t *testing.T) {
	assert.Equal(t, parseErrKind(t, `<style>.a { color: ; }</style>`), parseerr.CssEmptyDeclaration)
}

func TestDuplicateStyle(t *testing.T) {
	kind := parseErrKind(t, `<style>.a{color:red;}</style><style>.b{color:blue;}</style>`)
	assert.Equal(t, kind, parseerr.StyleDuplicate)
}
