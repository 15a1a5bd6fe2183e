package ecology

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Rand is the random source consumed by mutation.
type Rand interface {
	Float64() float64 // uniform in [0,1)
	IntN(n int) int
}

// NewRand returns a deterministic PCG source for seed. A zero seed is replaced
// by the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// #nosec G404 -- simulation randomness, not security sensitive
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
