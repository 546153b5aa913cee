// Package superinc implements superincreasing sequences: random generation
// and the linear-time greedy subset-sum solver they admit.
package superinc

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/utils"
)

// ErrNoSolution indicates a target that is not a subset sum of the weights.
var ErrNoSolution = errors.New("target is not a subset sum of the weights")

var bigOne = big.NewInt(1)

// Generate draws a random superincreasing sequence of n weights from r,
// followed by one extra term q drawn the same way.
//
// The first weight is uniform in [1, ceiling]. Every later term is uniform in
// [total+1, 2*total], where total is the sum of all earlier terms, so each
// term exceeds the sum of its predecessors by construction. q is drawn from
// the same range after the n-th weight and exceeds the sum of all weights,
// which makes it a valid knapsack modulus candidate.
func Generate(r io.Reader, n, ceiling int) (weights []*big.Int, q *big.Int, err error) {
	if n < 1 {
		return nil, nil, mhkc.ErrInvalidKeyLength
	}
	if ceiling < 1 {
		return nil, nil, mhkc.ErrInvalidCeiling
	}

	first, err := utils.RandomRange(r, bigOne, big.NewInt(int64(ceiling)))
	if err != nil {
		return nil, nil, err
	}

	weights = make([]*big.Int, 0, n)
	weights = append(weights, first)
	total := new(big.Int).Set(first)

	for len(weights) < n {
		next, err := nextTerm(r, total)
		if err != nil {
			return nil, nil, err
		}
		weights = append(weights, next)
		total.Add(total, next)
	}

	q, err = nextTerm(r, total)
	if err != nil {
		return nil, nil, err
	}
	return weights, q, nil
}

// nextTerm draws uniformly from [total+1, 2*total].
func nextTerm(r io.Reader, total *big.Int) (*big.Int, error) {
	lo := new(big.Int).Add(total, bigOne)
	hi := new(big.Int).Lsh(total, 1)
	return utils.RandomRange(r, lo, hi)
}

// IsSuperincreasing reports whether every weight is positive and strictly
// exceeds the sum of all weights before it.
func IsSuperincreasing(weights []*big.Int) bool {
	total := new(big.Int)
	for _, w := range weights {
		if w == nil || w.Sign() <= 0 || w.Cmp(total) <= 0 {
			return false
		}
		total.Add(total, w)
	}
	return true
}

// Sum returns the sum of weights.
func Sum(weights []*big.Int) *big.Int {
	total := new(big.Int)
	for _, w := range weights {
		total.Add(total, w)
	}
	return total
}

// Solve finds the subset of a superincreasing sequence that sums to target.
// bits[i] is 1 when weights[i] is part of the subset.
//
// The weights are visited from largest to smallest and each one is taken
// whenever it still fits. Because every weight exceeds the sum of all smaller
// ones, a weight that fits must be taken, so the greedy choice is the only
// solution. Solve returns ErrNoSolution when a remainder is left over.
func Solve(target *big.Int, weights []*big.Int) ([]byte, error) {
	if target == nil || target.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative target", ErrNoSolution)
	}

	bits := make([]byte, len(weights))
	remaining := new(big.Int).Set(target)
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i].Cmp(remaining) <= 0 {
			bits[i] = 1
			remaining.Sub(remaining, weights[i])
		}
	}

	if remaining.Sign() != 0 {
		return nil, fmt.Errorf("%w: remainder %s", ErrNoSolution, remaining)
	}
	return bits, nil
}
