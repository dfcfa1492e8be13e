package analyzer

import (
	"fmt"
	"strings"

	"github.com/veltra-dev/compiler/internal/ast"
	"github.com/veltra-dev/compiler/internal/jsast"
)

// Analyze runs the two-pass build over root: pass 1 walks the combined
// tree creating scopes, declarations, and unresolved references while
// queueing mutation-flag updates; pass 2 resolves every reference
// through the scope chain and applies the queued updates, so a binding's
// flags reflect every write regardless of visitation order (§5).
func Analyze(root *ast.Root) *Analysis {
	b := &scopeBuilder{
		analysis:     newAnalysis(),
		currentScope: 0,
		currentNode:  NoNode,
	}
	ast.Walk(root, b, b)

	b.bindLegacyReactive()
	b.bindStoreSubscriptions()

	// pass 2: resolve references, then apply queued mutation flags
	for _, ref := range b.analysis.References {
		if ref.Symbol != NoSymbol {
			continue
		}
		if sym, ok := b.analysis.FindSymbol(ref.Scope, ref.Name); ok {
			ref.Symbol = sym
			b.analysis.Bindings[sym].Flags |= FlagRead
		}
	}
	for _, u := range b.updates {
		if binding, ok := b.analysis.FindBinding(u.scope, u.name); ok {
			binding.Flags |= u.flags
		}
	}
	return b.analysis
}

type pendingUpdate struct {
	scope ScopeId
	flags BindingFlags
	name  string
}

type scopeBuilder struct {
	analysis     *Analysis
	currentScope ScopeId
	currentNode  NodeId
	updates      []pendingUpdate
	declKinds    []string // var/let/const, a stack for nested declarations
	legacy       []pendingUpdate
	unresolved   []*Reference // store-subscription candidates ($name)
}

func (b *scopeBuilder) pushNode(n any) {
	kind := strings.TrimLeft(strings.TrimPrefix(strings.TrimPrefix(
		fmt.Sprintf("%T", n), "*ast."), "*jsast."), "*")
	b.currentNode = b.analysis.addNode(kind, b.currentScope, b.currentNode)
}

func (b *scopeBuilder) popNode() {
	if b.currentNode != NoNode {
		b.currentNode = b.analysis.Nodes[b.currentNode].Parent
	}
}

func (b *scopeBuilder) enterScope(porous bool) {
	b.currentScope = b.analysis.addScope(b.currentScope, b.currentNode, porous)
}

func (b *scopeBuilder) leaveScope() {
	if parent := b.analysis.Scopes[b.currentScope].Parent; parent != NoScope {
		b.currentScope = parent
	}
}

func (b *scopeBuilder) declKind() DeclarationKind {
	if len(b.declKinds) == 0 {
		return DeclLet
	}
	switch b.declKinds[len(b.declKinds)-1] {
	case "var":
		return DeclVar
	case "const":
		return DeclConst
	}
	return DeclLet
}

func (b *scopeBuilder) declarePattern(p jsast.Pattern, kind BindingKind, decl DeclarationKind) {
	jsast.BoundNames(p, func(id *jsast.Identifier) {
		b.analysis.declare(id.Name, b.currentScope, b.currentNode, id.Span(), kind, decl)
	})
}

// ---- template half (ast.Visitor) -------------------------------------------

func (b *scopeBuilder) EnterSvelteNode(n ast.Node) { b.pushNode(n) }
func (b *scopeBuilder) LeaveSvelteNode(n ast.Node) { b.popNode() }

func (b *scopeBuilder) EnterSvelteScope(n ast.Node, porous bool) {
	b.enterScope(porous)
	// scope cells are assigned exactly once, by the analyzer (§3, §9)
	if fragment, ok := n.(*ast.Fragment); ok {
		fragment.ScopeId = ast.ScopeId(b.currentScope)
		meta := fragment.Metadata()
		meta.Transparent = porous
		fragment.SetMetadata(meta)
	}
}

func (b *scopeBuilder) LeaveSvelteScope(n ast.Node) { b.leaveScope() }

func (b *scopeBuilder) VisitTemplatePattern(p jsast.Pattern, owner ast.Node) {
	switch owner.(type) {
	case *ast.EachBlock:
		b.declarePattern(p, BindingEach, DeclSynthetic)
	case *ast.SnippetBlock:
		b.declarePattern(p, BindingNormal, DeclParam)
	default:
		b.declarePattern(p, BindingNormal, DeclSynthetic)
	}
}

func (b *scopeBuilder) VisitSnippetDeclaration(id *jsast.Identifier, _ *ast.SnippetBlock) {
	b.analysis.declare(id.Name, b.currentScope, b.currentNode, id.Span(), BindingSnippet, DeclFunction)
}

func (b *scopeBuilder) VisitConstTag(t *ast.ConstTag) {
	if t.Declaration == nil {
		return
	}
	b.declarePattern(t.Declaration.Id, BindingTemplate, DeclConst)
}

// VisitBindDirective treats a bind: directive the same way as an
// assignment to its expression (§4.I).
func (b *scopeBuilder) VisitBindDirective(a *ast.Attribute) {
	if a.Expression != nil {
		b.queueTargets(a.Expression)
	}
}

// ---- program half (jsast.Visitor) ------------------------------------------

func (b *scopeBuilder) EnterNode(n jsast.Node) {
	b.pushNode(n)
	if decl, ok := n.(*jsast.VariableDeclaration); ok {
		b.declKinds = append(b.declKinds, decl.Kind)
	}
}

func (b *scopeBuilder) LeaveNode(n jsast.Node) {
	if _, ok := n.(*jsast.VariableDeclaration); ok {
		b.declKinds = b.declKinds[:len(b.declKinds)-1]
	}
	b.popNode()
}

func (b *scopeBuilder) EnterScope(n jsast.Node) {
	switch n.(type) {
	case *jsast.Program:
		// module and instance programs share the root scope
	case *jsast.ArrowFunctionExpression, *jsast.FunctionExpression, *jsast.FunctionDeclaration:
		b.enterScope(false)
	default:
		// block statement, for/for-in/for-of, switch, catch
		b.enterScope(true)
	}
	if carrier, ok := n.(jsast.ScopeCarrier); ok {
		carrier.SetScopeId(int(b.currentScope))
	}
}

func (b *scopeBuilder) LeaveScope(n jsast.Node) {
	if _, ok := n.(*jsast.Program); ok {
		return
	}
	b.leaveScope()
}

func (b *scopeBuilder) VisitIdentifierReference(id *jsast.Identifier) {
	ref := b.analysis.addReference(id, b.currentScope)
	if strings.HasPrefix(id.Name, "$") && len(id.Name) > 1 && !isRuneName(id.Name) {
		b.unresolved = append(b.unresolved, b.analysis.References[ref])
	}
}

func (b *scopeBuilder) VisitBindingPattern(p jsast.Pattern, owner jsast.Node) {
	decl := DeclParam
	switch owner.(type) {
	case *jsast.CatchClause:
		decl = DeclLet
	default:
		if _, ok := p.(*jsast.RestElement); ok {
			decl = DeclRestParam
		}
	}
	b.declarePattern(p, BindingNormal, decl)
}

func (b *scopeBuilder) VisitVariableDeclarator(decl *jsast.VariableDeclarator) {
	b.bindDeclarator(decl)
}

func (b *scopeBuilder) VisitFunctionDeclaration(fn *jsast.FunctionDeclaration) {
	if fn.Id != nil {
		b.analysis.declare(fn.Id.Name, b.currentScope, b.currentNode, fn.Id.Span(), BindingNormal, DeclFunction)
	}
}

func (b *scopeBuilder) VisitFunctionExpression(fn *jsast.FunctionExpression) {}

func (b *scopeBuilder) VisitArrowFunctionExpression(fn *jsast.ArrowFunctionExpression) {}

func (b *scopeBuilder) VisitImportSpecifier(spec *jsast.ImportSpecifier) {
	if spec.Local != nil {
		b.analysis.declare(spec.Local.Name, b.currentScope, b.currentNode, spec.Local.Span(), BindingNormal, DeclImport)
	}
}

func (b *scopeBuilder) VisitClassDeclaration(decl *jsast.ClassDeclaration) {
	if decl.Id != nil {
		b.analysis.declare(decl.Id.Name, b.currentScope, b.currentNode, decl.Id.Span(), BindingNormal, DeclLet)
	}
}

func (b *scopeBuilder) VisitCatchClause(clause *jsast.CatchClause) {}

func (b *scopeBuilder) VisitAssignmentExpression(expr *jsast.AssignmentExpression) {
	b.queueTargets(expr.Left)
}

func (b *scopeBuilder) VisitUpdateExpression(expr *jsast.UpdateExpression) {
	b.queueTargets(expr.Argument)
}

// VisitLabeledStatement collects `$:` reactive-statement candidates: at
// the top level of a script, each identifier assigned inside the body
// that resolves to no other declaration becomes a LegacyReactive binding.
func (b *scopeBuilder) VisitLabeledStatement(stmt *jsast.LabeledStatement) {
	if stmt.Label == nil || stmt.Label.Name != "$" || b.currentScope != b.analysis.RootScope() {
		return
	}
	collectAssignmentTargets(stmt.Body, func(id *jsast.Identifier, bare bool) {
		if bare {
			b.legacy = append(b.legacy, pendingUpdate{scope: b.currentScope, name: id.Name})
		}
	})
}

// queueTargets extracts the leftmost identifier of every write reached
// through the target and queues a flag update: Reassigned for a bare
// identifier, Mutated for a member/pattern chain (§4.I).
func (b *scopeBuilder) queueTargets(target jsast.Node) {
	eachAssignmentTarget(target, func(id *jsast.Identifier, bare bool) {
		flags := FlagMutated
		if bare {
			flags = FlagReassigned
		}
		b.updates = append(b.updates, pendingUpdate{scope: b.currentScope, flags: flags, name: id.Name})
	})
}

func (b *scopeBuilder) bindLegacyReactive() {
	for _, cand := range b.legacy {
		if _, ok := b.analysis.FindSymbol(cand.scope, cand.name); ok {
			continue
		}
		b.analysis.declare(cand.name, b.analysis.RootScope(), NoNode,
			lociEmpty(), BindingLegacyReactive, DeclSynthetic)
	}
}

// bindStoreSubscriptions resolves `$name` references: if the unprefixed
// name resolves, the sigiled form becomes a synthetic StoreSub binding
// in the root scope.
func (b *scopeBuilder) bindStoreSubscriptions() {
	for _, ref := range b.unresolved {
		if _, declared := b.analysis.FindSymbol(ref.Scope, ref.Name); declared {
			continue
		}
		if _, storeExists := b.analysis.FindSymbol(ref.Scope, ref.Name[1:]); !storeExists {
			continue
		}
		b.analysis.declare(ref.Name, b.analysis.RootScope(), NoNode,
			lociEmpty(), BindingStoreSub, DeclSynthetic)
	}
}
