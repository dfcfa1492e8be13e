package analyzer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/handler"
	"github.com/veltra-dev/compiler/internal/parser"
)

func analyzeDoc(t *testing.T, source string) (*ast.Root, *Analysis) {
	t.Helper()
	h := handler.NewHandler(source, "test.svelte")
	result := parser.New(source, h).Parse()
	for _, err := range result.Errors {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return result.Root, Analyze(result.Root)
}

func mustBinding(t *testing.T, a *Analysis, name string) *Binding {
	t.Helper()
	for _, binding := range a.Bindings {
		if binding.Name == name {
			return binding
		}
	}
	t.Fatalf("no binding named %q", name)
	return nil
}

func TestStateBindingAndFlags(t *testing.T) {
	source := `<script>let x = $state(0);</script>{x}<button on:click={() => x++}>+</button>`
	_, analysis := analyzeDoc(t, source)

	x := mustBinding(t, analysis, "x")
	assert.Equal(t, x.Kind, BindingState)
	assert.Equal(t, x.DeclarationKind, DeclLet)
	assert.Assert(t, x.Flags.Reassigned(), "x++ must mark x Reassigned")
	assert.Assert(t, x.Flags.Read())
	assert.Assert(t, x.Flags.Updated())
}

func TestMemberWriteIsMutated(t *testing.T) {
	source := `<script>let user = $state({name: ""}); user.name = "x";</script>`
	_, analysis := analyzeDoc(t, source)

	user := mustBinding(t, analysis, "user")
	assert.Assert(t, user.Flags.Mutated())
	assert.Assert(t, !user.Flags.Reassigned())
}

func TestDestructuredAssignmentFlags(t *testing.T) {
	source := `<script>let a = 1; let b = {c: 0}; [a, b.c] = [2, 3];</script>`
	_, analysis := analyzeDoc(t, source)

	assert.Assert(t, mustBinding(t, analysis, "a").Flags.Reassigned())
	b := mustBinding(t, analysis, "b")
	assert.Assert(t, b.Flags.Mutated())
	assert.Assert(t, !b.Flags.Reassigned())
}

func TestReferenceResolution(t *testing.T) {
	source := `<script>let greeting = "hi";</script><p>{greeting}{missing}</p>`
	_, analysis := analyzeDoc(t, source)

	var resolved, unresolved int
	for _, ref := range analysis.References {
		switch ref.Name {
		case "greeting":
			assert.Assert(t, ref.Symbol != NoSymbol)
			// scope-chain closure: the symbol is reachable from the
			// reference's scope under the same name
			sym, ok := analysis.FindSymbol(ref.Scope, ref.Name)
			assert.Assert(t, ok)
			assert.Equal(t, sym, ref.Symbol)
			resolved++
		case "missing":
			assert.Equal(t, ref.Symbol, NoSymbol)
			unresolved++
		}
	}
	assert.Assert(t, resolved > 0)
	assert.Equal(t, unresolved, 1)
}

func TestEachContextBinding(t *testing.T) {
	source := `{#each items as item, i}{item}{i}{/each}`
	root, analysis := analyzeDoc(t, source)

	item := mustBinding(t, analysis, "item")
	assert.Equal(t, item.Kind, BindingEach)
	i := mustBinding(t, analysis, "i")
	assert.Equal(t, i.Kind, BindingEach)

	// the each body's fragment scope was assigned by the analyzer
	each := root.Fragment.Nodes[0].(*ast.EachBlock)
	assert.Assert(t, each.Body.ScopeId != ast.NoScope)
	assert.Assert(t, root.Fragment.Metadata().Transparent)
}

func TestSnippetBindings(t *testing.T) {
	source := `{#snippet row(item)}{item}{/snippet}{@render row(1)}`
	_, analysis := analyzeDoc(t, source)

	row := mustBinding(t, analysis, "row")
	assert.Equal(t, row.Kind, BindingSnippet)
	item := mustBinding(t, analysis, "item")
	assert.Equal(t, item.DeclarationKind, DeclParam)

	// the render call resolves to the snippet binding
	for _, ref := range analysis.References {
		if ref.Name == "row" {
			assert.Assert(t, ref.Symbol != NoSymbol)
		}
	}
}

func TestConstTagTemplateBinding(t *testing.T) {
	source := `{#each boxes as box}{@const area = box.w * box.h}{area}{/each}`
	_, analysis := analyzeDoc(t, source)

	area := mustBinding(t, analysis, "area")
	assert.Equal(t, area.Kind, BindingTemplate)
	assert.Equal(t, area.DeclarationKind, DeclConst)
	assert.Assert(t, area.Flags.Read())
}

func TestPropsBindings(t *testing.T) {
	source := `<script>let { title, size = $bindable(1), ...rest } = $props();</script>{title}`
	_, analysis := analyzeDoc(t, source)

	assert.Equal(t, mustBinding(t, analysis, "title").Kind, BindingProp)
	assert.Equal(t, mustBinding(t, analysis, "size").Kind, BindingBindableProp)
	assert.Equal(t, mustBinding(t, analysis, "rest").Kind, BindingRestProp)
}

func TestDerivedAndRawState(t *testing.T) {
	source := `<script>let n = $state.raw(0); let double = $derived(n * 2);</script>`
	_, analysis := analyzeDoc(t, source)

	assert.Equal(t, mustBinding(t, analysis, "n").Kind, BindingRawState)
	assert.Equal(t, mustBinding(t, analysis, "double").Kind, BindingDerived)
}

func TestStoreSubscription(t *testing.T) {
	source := `<script>import { count } from "./stores.js"; let doubled = $count * 2;</script>`
	_, analysis := analyzeDoc(t, source)

	assert.Equal(t, mustBinding(t, analysis, "count").DeclarationKind, DeclImport)
	sub := mustBinding(t, analysis, "$count")
	assert.Equal(t, sub.Kind, BindingStoreSub)
}

func TestLegacyReactiveBinding(t *testing.T) {
	source := `<script>let count = 0; $: doubled = count * 2;</script>{doubled}`
	_, analysis := analyzeDoc(t, source)

	doubled := mustBinding(t, analysis, "doubled")
	assert.Equal(t, doubled.Kind, BindingLegacyReactive)
	assert.Assert(t, doubled.Flags.Reassigned())
}

func TestBindDirectiveMarksReassigned(t *testing.T) {
	source := `<script>let value = "";</script><input bind:value={value}/>`
	_, analysis := analyzeDoc(t, source)

	assert.Assert(t, mustBinding(t, analysis, "value").Flags.Reassigned())
}

func TestFunctionScopes(t *testing.T) {
	source := `<script>
let outer = 1;
function work(inner) {
	let local = inner + outer;
	return local;
}
</script>`
	_, analysis := analyzeDoc(t, source)

	outer := mustBinding(t, analysis, "outer")
	assert.Equal(t, outer.Scope, analysis.RootScope())
	work := mustBinding(t, analysis, "work")
	assert.Equal(t, work.DeclarationKind, DeclFunction)
	assert.Equal(t, work.Scope, analysis.RootScope())

	inner := mustBinding(t, analysis, "inner")
	assert.Assert(t, inner.Scope != analysis.RootScope())
	assert.Equal(t, inner.DeclarationKind, DeclParam)

	local := mustBinding(t, analysis, "local")
	// the function body is a block statement, whose scope is porous
	assert.Assert(t, analysis.Scopes[local.Scope].Porous)
}

func TestAnalyzerIdempotence(t *testing.T) {
	source := `<script>let x = $state(0); x++; let y = [1]; y[0] = 2;</script>{x}`
	h := handler.NewHandler(source, "test.svelte")
	result := parser.New(source, h).Parse()
	assert.Equal(t, len(result.Errors), 0)

	flagsOf := func(a *Analysis) map[string]BindingFlags {
		out := map[string]BindingFlags{}
		for _, binding := range a.Bindings {
			out[binding.Name] = binding.Flags
		}
		return out
	}

	first := Analyze(result.Root)
	second := Analyze(result.Root)
	if diff := cmp.Diff(flagsOf(first), flagsOf(second)); diff != "" {
		t.Fatalf("binding flags differ between runs (-first +second):\n%s", diff)
	}
}
