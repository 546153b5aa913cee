// Package arith implements the modular arithmetic used by the knapsack
// cryptosystem: the extended Euclidean algorithm and modular inverses.
package arith

import (
	"fmt"
	"math/big"

	mhkc "github.com/BackendStack21/mhkc-go"
)

var bigOne = big.NewInt(1)

// ExtendedGCD returns g = gcd(a, b) and Bézout coefficients x, y with
// a*x + b*y = g.
//
// The coefficients match the recursive definition
//
//	egcd(0, b) = (b, 0, 1)
//	egcd(a, b) = (g, y1 - (b div a)*x1, x1) where (g, x1, y1) = egcd(b mod a, a)
//
// evaluated bottom-up, so callers get the same x and y the recursion would
// produce without its stack depth. Division and remainder are floored, which
// keeps the result identical for negative inputs as well.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	var quotients []*big.Int
	ra, rb := new(big.Int).Set(a), new(big.Int).Set(b)
	for ra.Sign() != 0 {
		q, m := new(big.Int), new(big.Int)
		floorDivMod(rb, ra, q, m)
		quotients = append(quotients, q)
		ra, rb = m, ra
	}

	g = rb
	x, y = big.NewInt(0), big.NewInt(1)
	tmp := new(big.Int)
	for i := len(quotients) - 1; i >= 0; i-- {
		// (x, y) <- (y - q*x, x)
		tmp.Mul(quotients[i], x)
		nx := new(big.Int).Sub(y, tmp)
		x, y = nx, x
	}
	return g, x, y
}

// floorDivMod sets q = floor(n / d) and m = n - q*d, the floored division
// used by the recursive definition. big.Int.DivMod is Euclidean, which only
// differs when d is negative.
func floorDivMod(n, d, q, m *big.Int) {
	q.DivMod(n, d, m)
	if d.Sign() < 0 && m.Sign() != 0 {
		q.Sub(q, bigOne)
		m.Add(m, d)
	}
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(bigOne) == 0
}

// ModInverse returns the inverse of a modulo m, in [0, m).
// It fails with mhkc.ErrNoInverse when gcd(a, m) != 1 instead of returning
// a meaningless coefficient.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m == nil || m.Cmp(bigOne) <= 0 {
		return nil, fmt.Errorf("%w: %v", mhkc.ErrInvalidModulus, m)
	}
	ar := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(ar, m)
	if g.Cmp(bigOne) != 0 {
		return nil, fmt.Errorf("%w: gcd(%s, %s) = %s", mhkc.ErrNoInverse, a, m, g)
	}
	return x.Mod(x, m), nil
}
