package random

import (
	"math/rand"
	"sync"
)

// Source is the randomness provider for dice rolls.
//
// Implementations must be safe for concurrent use when shared between
// engines.
type Source interface {
	// Intn returns a random int in [0, n). n is always positive.
	Intn(n int) int
}

// LockedSource is a seeded math/rand source guarded by a mutex.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedSource creates a deterministic source for the given seed.
func NewLockedSource(seed int64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
func (s *LockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Sequence replays fixed die faces. Each call to Intn consumes the next face
// and returns face-1, so a Sequence of {20} makes a d20 roll a natural 20.
// When the faces run out the sequence wraps around. Faces larger than the
// requested die are reduced modulo the die size.
type Sequence struct {
	mu    sync.Mutex
	faces []int
	next  int
}

// NewSequence creates a source that yields the given faces in order.
func NewSequence(faces ...int) *Sequence {
	return &Sequence{faces: append([]int(nil), faces...)}
}

// Intn returns the next face as a zero-based value.
func (s *Sequence) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.faces) == 0 {
		return 0
	}
	face := s.faces[s.next%len(s.faces)]
	s.next++
	if face < 1 {
		face = 1
	}
	return (face - 1) % n
}

// Calls reports how many faces have been consumed.
func (s *Sequence) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
