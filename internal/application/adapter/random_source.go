package adapter

import "time"

// RandomSource provides uniform random integers for shuffles.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n). It panics if n <= 0.
	Intn(n int) int
}

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Shuffle permutes n elements in place with Fisher-Yates, walking from the
// last index down to 1.
func Shuffle(rnd RandomSource, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		swap(i, j)
	}
}
