// Package nmu extracts course data from the NMU pages on mccme.ru.
// The pages are semi-structured and inconsistently formatted, so extraction
// relies on prioritized selectors with text-pattern fallbacks.
package nmu

import (
	"crypto/md5"
	"encoding/hex"
)

// ShortIDLength is the length of identifiers produced by ShortID.
const ShortIDLength = 8

// ShortID derives a short, stable identifier from a URL: the first 8 hex
// characters of its MD5 digest. Deterministic across calls and restarts.
// Used to keep callback payloads compact; the small cardinality of courses
// per semester makes collisions negligible.
func ShortID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:ShortIDLength]
}
