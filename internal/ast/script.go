package ast

import "github.com/veltra-dev/compiler/internal/jsast"

type ScriptContext uint8

const (
	ScriptDefault ScriptContext = iota
	ScriptModule
)

func (c ScriptContext) String() string {
	if c == ScriptModule {
		return "module"
	}
	return "default"
}

// Script is an instance or module <script>, §3.
type Script struct {
	base
	Context        ScriptContext
	Program        *jsast.Program
	Attributes     []Attribute
	LeadingComment *Comment // most recent preceding Comment, whitespace-only between
}
