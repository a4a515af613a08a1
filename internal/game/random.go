package game

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
	"time"
)

// Source supplies uniform random numbers. Every function in the engine that
// samples takes a Source so tests can run with a fixed seed.
type Source interface {
	// Float64 returns a number in [0, 1).
	Float64() float64
}

type seededSource struct {
	mu sync.Mutex
	r  *mrand.Rand
}

// NewSource returns a deterministic Source. A zero seed picks one from the
// clock.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &seededSource{r: mrand.New(mrand.NewSource(seed))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

type cryptoSource struct{}

// CryptoSource returns a Source backed by crypto/rand.
func CryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Float64() float64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	n := binary.LittleEndian.Uint64(b[:])
	return float64(n>>11) / (1 << 53)
}

// intn returns a uniform int in [0, n). n <= 1 always yields 0.
func intn(src Source, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := intn(src, i+1)
		s[i], s[j] = s[j], s[i]
	}
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[intn(src, len(items))], true
}

// Shuffle shuffles s in place.
func Shuffle[T any](src Source, s []T) {
	shuffle(src, s)
}

// Intn returns a uniform int in [0, n).
func Intn(src Source, n int) int {
	return intn(src, n)
}
