package parser

import (
	"regexp"

	"github.com/dlclark/regexp2"
)

var (
	regexWhitespaceOrSlashOrClosingTag = regexp.MustCompile(`(\s|/|>)`)
	regexClosingComment                = regexp.MustCompile(`-->`)
	regexClosingTag                    = regexp.MustCompile(`^</\s*(\S*?)\s*>`)
	regexNotLowercaseAToZ              = regexp.MustCompile(`[^a-z]`)

	regexValidElementName = regexp.MustCompile(
		`^(?:![a-zA-Z]+|[a-zA-Z](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?|[a-zA-Z][a-zA-Z0-9]*:[a-zA-Z][a-zA-Z0-9-]*[a-zA-Z0-9])$`)
)

// regexValidComponentName needs the Unicode identifier categories and an
// any-of-dotted-chain shape Go's RE2 engine cannot express directly; the
// .NET-style engine handles it, as it does the lookahead in regexLangTS.
var regexValidComponentName = regexp2.MustCompile(
	`^(?:\p{Lu}[$\u200c\u200d\p{L}\p{Nd}\p{Mn}\p{Mc}\p{Pc}.]*|[$_\p{L}][$\u200c\u200d\p{L}\p{Nd}\p{Mn}\p{Mc}\p{Pc}]*(?:\.[$\u200c\u200d\p{L}\p{Nd}\p{Mn}\p{Mc}\p{Pc}]+)+)$`, 0)

var regexIdentifier = regexp.MustCompile(`^[$_\pL][$\pL\p{Nd}_]*`)

func isValidElementName(name string) bool {
	return regexValidElementName.MatchString(name)
}

func isValidComponentName(name string) bool {
	ok, _ := regexValidComponentName.MatchString(name)
	return ok
}
