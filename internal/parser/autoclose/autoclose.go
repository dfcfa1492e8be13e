// Package autoclose encodes the HTML closing-tag-omission rules: which
// opening tags implicitly close an ancestor, and which elements never
// carry a content fragment.
package autoclose

import "golang.org/x/net/html/atom"

// rule describes when a parent element's closing tag may be omitted.
// ClosingTagOmitted checks the direct list, or the descendant list when
// direct is empty, against the child opening immediately inside the
// parent; an opening tag deeper below the parent does not close it, and
// resetBy is not consulted.
type rule struct {
	direct     []atom.Atom
	descendant []atom.Atom
	resetBy    []atom.Atom
}

var rules = map[atom.Atom]rule{
	atom.Li: {direct: []atom.Atom{atom.Li}},
	// https://developer.mozilla.org/en-US/docs/Web/HTML/Element/dt#technical_summary
	atom.Dt: {descendant: []atom.Atom{atom.Dt, atom.Dd}, resetBy: []atom.Atom{atom.Dl}},
	atom.Dd: {descendant: []atom.Atom{atom.Dt, atom.Dd}, resetBy: []atom.Atom{atom.Dl}},
	atom.P: {descendant: []atom.Atom{
		atom.Address, atom.Article, atom.Aside, atom.Blockquote, atom.Div,
		atom.Dl, atom.Fieldset, atom.Footer, atom.Form,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Header, atom.Hgroup, atom.Hr, atom.Main, atom.Menu, atom.Nav,
		atom.Ol, atom.P, atom.Pre, atom.Section, atom.Table, atom.Ul,
	}},
	atom.Rt:       {descendant: []atom.Atom{atom.Rt, atom.Rp}},
	atom.Rp:       {descendant: []atom.Atom{atom.Rt, atom.Rp}},
	atom.Optgroup: {descendant: []atom.Atom{atom.Optgroup}},
	atom.Option:   {descendant: []atom.Atom{atom.Option, atom.Optgroup}},
	atom.Thead:    {direct: []atom.Atom{atom.Tbody, atom.Tfoot}},
	atom.Tbody:    {direct: []atom.Atom{atom.Tbody, atom.Tfoot}},
	atom.Tfoot:    {direct: []atom.Atom{atom.Tbody}},
	atom.Tr:       {direct: []atom.Atom{atom.Tr, atom.Tbody}},
	atom.Td:       {direct: []atom.Atom{atom.Td, atom.Th, atom.Tr}},
	atom.Th:       {direct: []atom.Atom{atom.Td, atom.Th, atom.Tr}},
}

// ClosingTagOmitted reports whether opening <next> inside <current>
// implicitly closes <current>. An empty next means end-of-parent, which
// closes every auto-closable element.
func ClosingTagOmitted(current, next string) bool {
	r, ok := rules[atom.Lookup([]byte(current))]
	if !ok {
		return false
	}
	if next == "" {
		return true
	}
	a := atom.Lookup([]byte(next))
	if a == 0 {
		return false
	}
	candidates := r.direct
	if len(candidates) == 0 {
		candidates = r.descendant
	}
	for _, c := range candidates {
		if c == a {
			return true
		}
	}
	return false
}

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Command: true, atom.Embed: true, atom.Hr: true, atom.Img: true,
	atom.Input: true, atom.Keygen: true, atom.Link: true, atom.Meta: true,
	atom.Param: true, atom.Source: true, atom.Track: true, atom.Wbr: true,
}

// IsVoid reports whether name is a void element, one that never has a
// content fragment.
func IsVoid(name string) bool {
	return voidElements[atom.Lookup([]byte(name))]
}
