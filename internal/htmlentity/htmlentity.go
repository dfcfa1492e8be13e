// Package htmlentity decodes HTML character references in text nodes. It
// wraps the entity tables that ship with golang.org/x/net/html rather
// than reimplementing decoding.
package htmlentity

import "golang.org/x/net/html"

// Decode resolves named and numeric character references in s.
func Decode(s string) string {
	return html.UnescapeString(s)
}
