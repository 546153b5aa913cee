package superinc

import (
	"math/big"
	"testing"
)

// FuzzSolve checks that any solution Solve reports really sums to the target.
func FuzzSolve(f *testing.F) {
	f.Add(int64(0))
	f.Add(int64(15))
	f.Add(int64(17))
	f.Add(int64(-1))
	f.Add(int64(1 << 40))

	weights := ints(1, 2, 4, 10, 19, 40, 77, 160)
	f.Fuzz(func(t *testing.T, target int64) {
		bits, err := Solve(big.NewInt(target), weights)
		if err != nil {
			return
		}
		sum := new(big.Int)
		for i, b := range bits {
			if b == 1 {
				sum.Add(sum, weights[i])
			}
		}
		if sum.Int64() != target {
			t.Fatalf("Solve(%d) returned bits summing to %s", target, sum)
		}
	})
}
