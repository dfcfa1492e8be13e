// Package handler accumulates the non-fatal diagnostics produced while
// parsing, analyzing, and transforming a single document.
package handler

import (
	"fmt"

	"github.com/veltra-dev/compiler/internal/parseerr"
)

// Handler is bound to one parse. It is process-local, mutated in place,
// and never shared across documents.
type Handler struct {
	sourcetext string
	filename   string
	errors     []error
	warnings   []error
}

// NewHandler constructs a Handler for a single source document.
func NewHandler(sourcetext string, filename string) *Handler {
	return &Handler{
		sourcetext: sourcetext,
		filename:   filename,
		errors:     make([]error, 0),
		warnings:   make([]error, 0),
	}
}

func (h *Handler) HasErrors() bool {
	return len(h.errors) > 0
}

// AppendError records a fatal-within-scope diagnostic. Per the propagation
// policy, attribute- and element-level errors are fatal within their
// element but reported here only after the parser unwinds past it.
func (h *Handler) AppendError(err error) {
	if err != nil {
		h.errors = append(h.errors, err)
	}
}

// AppendWarning records a non-fatal diagnostic, e.g. an unrecognized
// script attribute.
func (h *Handler) AppendWarning(err error) {
	if err != nil {
		h.warnings = append(h.warnings, err)
	}
}

func (h *Handler) Errors() []error {
	return h.errors
}

func (h *Handler) Warnings() []error {
	return h.warnings
}

// Filename returns the name the handler was constructed with, used to
// prefix rendered diagnostics.
func (h *Handler) Filename() string {
	return h.filename
}

// Render produces a human-readable "file:line:col: message" report for a
// single diagnostic by mapping its span back onto the source text. This is
// the one caller-side concern §7 calls out explicitly: "the caller can
// surface them with the source text to produce a human-readable report".
func (h *Handler) Render(err error) string {
	var perr *parseerr.Error
	if pe, ok := err.(*parseerr.Error); ok {
		perr = pe
	}
	if perr == nil {
		return err.Error()
	}
	line, col := lineAndColumn(h.sourcetext, perr.Span.Start)
	if h.filename != "" {
		return fmt.Sprintf("%s:%d:%d: %s", h.filename, line, col, perr.Error())
	}
	return fmt.Sprintf("%d:%d: %s", line, col, perr.Error())
}

func lineAndColumn(source string, offset int) (line, col int) {
	line = 1
	col = 1
	if offset > len(source) {
		offset = len(source)
	}
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
