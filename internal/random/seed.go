// Package random provides the randomness collaborators used by the dice
// engine: seed generation, a concurrency-safe seeded source, and a fixed
// sequence source for reproducible rolls.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns the requested seed, or a fresh one when requested is zero.
func ResolveSeed(requested int64, generate func() (int64, error)) (int64, error) {
	if requested != 0 {
		return requested, nil
	}
	if generate == nil {
		generate = NewSeed
	}
	return generate()
}
