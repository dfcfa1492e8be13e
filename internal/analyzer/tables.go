// Package analyzer builds the lexical scope and binding graph over the
// combined template+program tree: a tree of scopes, a binding per
// declaration classified by kind, a reference record per identifier use,
// and mutation flags inferred from assignment and update expressions.
package analyzer

import (
	"fmt"

	"github.com/veltra-dev/compiler/internal/jsast"
	"github.com/veltra-dev/compiler/internal/loc"
)

// Dense numeric indices into the side tables (§9).
type (
	ScopeId     int
	SymbolId    int
	ReferenceId int
	NodeId      int
)

const (
	NoSymbol SymbolId = -1
	NoScope  ScopeId  = -1
	NoNode   NodeId   = -1
)

// DeclarationKind records how a binding was declared.
type DeclarationKind uint8

const (
	DeclVar DeclarationKind = iota
	DeclLet
	DeclConst
	DeclFunction
	DeclImport
	DeclParam
	DeclRestParam
	DeclSynthetic
)

// BindingKind classifies what a binding is to the runtime.
type BindingKind uint8

const (
	BindingNormal BindingKind = iota
	BindingProp
	BindingBindableProp
	BindingRestProp
	BindingState
	BindingRawState
	BindingDerived
	BindingEach
	BindingSnippet
	BindingStoreSub
	BindingLegacyReactive
	BindingTemplate
)

var bindingKindNames = [...]string{
	"Normal", "Prop", "BindableProp", "RestProp", "State", "RawState",
	"Derived", "Each", "Snippet", "StoreSub", "LegacyReactive", "Template",
}

func (k BindingKind) String() string {
	if int(k) < len(bindingKindNames) {
		return bindingKindNames[k]
	}
	return fmt.Sprintf("BindingKind(%d)", uint8(k))
}

// BindingFlags are the mutation flags on a binding.
type BindingFlags uint8

const (
	FlagRead BindingFlags = 1 << iota
	FlagReassigned
	FlagMutated
)

func (f BindingFlags) Read() bool       { return f&FlagRead != 0 }
func (f BindingFlags) Reassigned() bool { return f&FlagReassigned != 0 }
func (f BindingFlags) Mutated() bool    { return f&FlagMutated != 0 }
func (f BindingFlags) Updated() bool    { return f&(FlagReassigned|FlagMutated) != 0 }

// Scope is one node of the scope tree. Porous scopes participate in name
// lookup but delegate to their parent for identifier generation.
type Scope struct {
	Parent   ScopeId
	Children []ScopeId
	Node     NodeId
	Bindings map[string]SymbolId
	Porous   bool
}

// Binding is one entry of the binding table.
type Binding struct {
	Name            string
	Span            loc.Span
	Scope           ScopeId
	DeclNode        NodeId
	DeclarationKind DeclarationKind
	Kind            BindingKind
	Flags           BindingFlags
}

// Reference is one identifier use. Symbol is NoSymbol when the reference
// never resolved; that is recorded, not an error (§7).
type Reference struct {
	Node   *jsast.Identifier
	Symbol SymbolId
	Scope  ScopeId
	Name   string
}

// NodeInfo backs the AST node table: parent-chain iteration over
// everything the builder visited.
type NodeInfo struct {
	Kind   string
	Scope  ScopeId
	Parent NodeId
}

// Analysis is the result of analyzing one document.
type Analysis struct {
	Scopes     []*Scope
	Bindings   []*Binding
	References []*Reference
	Nodes      []NodeInfo

	// conflicts holds every name declared anywhere; Unique avoids them.
	conflicts map[string]bool
	counter   int
}

func newAnalysis() *Analysis {
	a := &Analysis{conflicts: map[string]bool{}}
	// scope 0 is the root, created before any node exists
	a.Scopes = append(a.Scopes, &Scope{Parent: NoScope, Node: NoNode, Bindings: map[string]SymbolId{}})
	return a
}

func (a *Analysis) RootScope() ScopeId { return 0 }

func (a *Analysis) addScope(parent ScopeId, node NodeId, porous bool) ScopeId {
	id := ScopeId(len(a.Scopes))
	a.Scopes = append(a.Scopes, &Scope{
		Parent:   parent,
		Node:     node,
		Bindings: map[string]SymbolId{},
		Porous:   porous,
	})
	if parent != NoScope {
		a.Scopes[parent].Children = append(a.Scopes[parent].Children, id)
	}
	return id
}

func (a *Analysis) addNode(kind string, scope ScopeId, parent NodeId) NodeId {
	id := NodeId(len(a.Nodes))
	a.Nodes = append(a.Nodes, NodeInfo{Kind: kind, Scope: scope, Parent: parent})
	return id
}

// ParentChain iterates node ancestors, innermost first.
func (a *Analysis) ParentChain(id NodeId, fn func(NodeInfo) bool) {
	for id != NoNode {
		info := a.Nodes[id]
		if !fn(info) {
			return
		}
		id = info.Parent
	}
}

// FindSymbol walks the scope chain from scope to the root and returns
// the first binding for name. Porous scopes participate (§4.I).
func (a *Analysis) FindSymbol(scope ScopeId, name string) (SymbolId, bool) {
	for s := scope; s != NoScope; s = a.Scopes[s].Parent {
		if sym, ok := a.Scopes[s].Bindings[name]; ok {
			return sym, true
		}
	}
	return NoSymbol, false
}

// FindBinding resolves name through the chain and returns the binding.
func (a *Analysis) FindBinding(scope ScopeId, name string) (*Binding, bool) {
	sym, ok := a.FindSymbol(scope, name)
	if !ok {
		return nil, false
	}
	return a.Bindings[sym], true
}

func (a *Analysis) declare(name string, scope ScopeId, node NodeId, span loc.Span, kind BindingKind, decl DeclarationKind) SymbolId {
	sym := SymbolId(len(a.Bindings))
	a.Bindings = append(a.Bindings, &Binding{
		Name:            name,
		Span:            span,
		Scope:           scope,
		DeclNode:        node,
		DeclarationKind: decl,
		Kind:            kind,
	})
	a.Scopes[scope].Bindings[name] = sym
	a.conflicts[name] = true
	return sym
}

func (a *Analysis) addReference(id *jsast.Identifier, scope ScopeId) ReferenceId {
	ref := ReferenceId(len(a.References))
	a.References = append(a.References, &Reference{
		Node:   id,
		Symbol: NoSymbol,
		Scope:  scope,
		Name:   id.Name,
	})
	return ref
}

// Unique returns an identifier derived from hint that collides with no
// declared name anywhere in the document.
func (a *Analysis) Unique(hint string) string {
	if hint == "" {
		hint = "anonymous"
	}
	name := hint
	for a.conflicts[name] {
		a.counter++
		name = fmt.Sprintf("%s_%d", hint, a.counter)
	}
	a.conflicts[name] = true
	return name
}

// Generate returns an identifier that collides with nothing visible from
// scope. Porous scopes delegate to their parent: the effective scope is
// the innermost non-porous ancestor (§3).
func (a *Analysis) Generate(hint string, scope ScopeId) string {
	for scope != NoScope && a.Scopes[scope].Porous {
		scope = a.Scopes[scope].Parent
	}
	if hint == "" {
		hint = "anonymous"
	}
	name := hint
	for {
		if _, found := a.FindSymbol(scope, name); !found && !a.conflicts[name] {
			break
		}
		a.counter++
		name = fmt.Sprintf("%s_%d", hint, a.counter)
	}
	a.conflicts[name] = true
	return name
}
