// Package seed provides the deterministic key-to-integer derivation every
// generator builds on. The hash function and the salt strings callers append
// to the date are a frozen contract: any implementation, in any language,
// must use SHA-256 and the identical key strings to reproduce the same
// puzzles for the same dates.
package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// HashInt hashes the key with SHA-256 and parses the first 8 hex characters
// of the digest as an unsigned 32-bit integer. Identical keys yield identical
// output across processes and versions.
func HashInt(key string) uint32 {
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:])
	n, _ := strconv.ParseUint(digest[:8], 16, 32)
	return uint32(n)
}

// RangeInt maps the key onto the inclusive range [min, max].
func RangeInt(key string, min, max int) int {
	return min + int(HashInt(key)%uint32(max-min+1))
}
