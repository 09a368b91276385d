// Package ackermann computes the Ackermann function, natively and inside a
// WebAssembly runtime, to compare naive recursive call overhead.
package ackermann

// Fixed benchmark input. Ackermann(DefaultM, DefaultN) == 2^15 - 3.
const (
	DefaultM = 3
	DefaultN = 12
)

// Ackermann is defined for m >= 0 and n >= 0. A negative m never reaches
// the m == 0 case and recurses until the goroutine stack is exhausted.
// Results past Ackermann(4, 1) overflow int64.
func Ackermann(m, n int64) int64 {
	if m == 0 {
		return n + 1
	} else if n == 0 {
		return Ackermann(m-1, 1)
	}
	return Ackermann(m-1, Ackermann(m, n-1))
}

// Expected returns the closed form of Ackermann(m, n) for 0 <= m <= 3 and
// n >= 0.
func Expected(m, n int64) (int64, bool) {
	if n < 0 {
		return 0, false
	}
	switch m {
	case 0:
		return n + 1, true
	case 1:
		return n + 2, true
	case 2:
		return 2*n + 3, true
	case 3:
		return 1<<(n+3) - 3, true
	}
	return 0, false
}
