package subs

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// KeyOf derives a stable subscription key from the given request fields.
// Parts are length-prefixed before hashing so field boundaries stay
// distinct: KeyOf("ab", "c") and KeyOf("a", "bc") differ. The digest keeps
// keys short no matter how large the request payload grows.
//
// Usage:
//
//	func (r feedRequest) SubKey() string {
//		return subs.KeyOf(r.exchange, r.symbol)
//	}
func KeyOf(parts ...string) string {
	h := xxhash.New()
	for _, p := range parts {
		// Write on an xxhash digest never returns an error.
		_, _ = h.WriteString(strconv.Itoa(len(p)))
		_, _ = h.WriteString(":")
		_, _ = h.WriteString(p)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
