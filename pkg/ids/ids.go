// Package ids generates short random access IDs.
//
// IDs are not cryptographic. Collisions are possible and callers are
// expected to retry insertion when one occurs.
package ids

import "time"

// Alphabet is the character set used for access IDs.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultLength is the length of a standard access ID.
const DefaultLength = 5

// Generate returns a DefaultLength ID over Alphabet.
func Generate() string {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns an ID of the given length over Alphabet.
func GenerateWithLength(length int) string {
	return GenerateCustom(length, Alphabet)
}

// GenerateCustom returns an ID of the given length over the given
// alphabet, using an LCG seeded from the wall clock.
func GenerateCustom(length int, alphabet string) string {
	out := make([]byte, 0, length)

	seed := uint64(time.Now().UnixNano())
	n := uint64(len(alphabet))

	for range length {
		seed = seed*1664525 + 1013904223
		out = append(out, alphabet[seed%n])
	}

	return string(out)
}
