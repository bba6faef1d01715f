package api

import "strings"

// ResolveKey derives the lookup key from a request path by stripping prefix.
// The remainder is used verbatim: no decoding, cleaning or trimming.
// It reports false if path does not start with prefix.
func ResolveKey(path, prefix string) (string, bool) {
	return strings.CutPrefix(path, prefix)
}
