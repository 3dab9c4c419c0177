package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Rand is the randomness the decision engine needs: uniform draws on [0,1)
// for the win check and uniform index picks for prize selection.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// lockedRand guards a math/rand source so concurrent plays can share it.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

// NewRand returns a Rand seeded from crypto/rand.
func NewRand() (Rand, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, err
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]))
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}, nil
}

// NewSeededRand returns a deterministic Rand for tests and simulations.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}
