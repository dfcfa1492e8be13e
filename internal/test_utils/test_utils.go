// Package test_utils holds the snapshot and diff helpers the printer
// tests use.
package test_utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/lithammer/dedent"
	"github.com/pkg/diff"
)

// Dedent trims trailing spaces and newlines and all leading whitespace,
// squeezes runs of blank lines, then removes indentation common to every
// line. Since the first line's own indentation is trimmed first, a
// fixture whose later lines are indented keeps that indentation.
func Dedent(input string) string {
	return dedent.Dedent(
		strings.ReplaceAll(
			strings.TrimLeft(
				strings.TrimRight(input, " \n\r"),
				" \t\r\n"),
			"\n\n\n", "\n\n"),
	)
}

// DiffText renders a unified diff between want and got for readable
// failures on multi-line golden fixtures.
func DiffText(want, got string) string {
	var buf bytes.Buffer
	if err := diff.Text("want", "got", want, got, &buf); err != nil {
		return "diff failed: " + err.Error()
	}
	return buf.String()
}

// RedactTestName removes characters the snapshot filename cannot carry.
func RedactTestName(name string) string {
	replacer := strings.NewReplacer(
		"#", "_", "<", "_", ">", "_", "(", "_", ")", "_", ":", "_",
		" ", "_", "'", "_", `"`, "_", "@", "_", "`", "_", "+", "_", "/", "_",
	)
	return replacer.Replace(name)
}

type SnapshotOptions struct {
	Testing      *testing.T
	TestCaseName string
	Input        string
	Output       string
	Lang         string
}

// MakeSnapshot records an input/output pair as a markdown snapshot under
// __snapshots__, one file per test case.
func MakeSnapshot(options *SnapshotOptions) {
	s := snaps.WithConfig(
		snaps.Filename(RedactTestName(options.TestCaseName)),
		snaps.Dir("__snapshots__"),
	)

	snapshot := "## Input\n\n```\n"
	snapshot += Dedent(options.Input)
	snapshot += "\n```\n\n## Output\n\n"
	snapshot += "```" + options.Lang + "\n"
	snapshot += Dedent(options.Output)
	snapshot += "\n```"

	s.MatchSnapshot(options.Testing, snapshot)
}
