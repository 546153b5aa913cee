// Package mhkc implements the Merkle-Hellman Knapsack Cryptosystem.
//
// The knapsack cryptosystem hides a superincreasing sequence, for which
// subset-sum is trivial, behind a modular multiplication that makes the
// published sequence look like a general subset-sum instance.
//
// WARNING: Merkle-Hellman is broken by lattice reduction. This package is for
// teaching and experimentation only. DO NOT use it to protect real data.
package mhkc

import (
	"fmt"
	"math/big"
)

// KeySize names a preset key length.
type KeySize string

const (
	// Byte keys carry 8 bits per unit and cover code points 0-255.
	Byte KeySize = "byte"
	// BMP keys carry 16 bits per unit and cover the Basic Multilingual Plane.
	BMP KeySize = "bmp"
	// Unicode keys carry 21 bits per unit and cover every code point.
	Unicode KeySize = "unicode"
)

// =============================================================================
// Parameter Types
// =============================================================================

// Params contains the parameters used to generate a private key.
type Params struct {
	Size               KeySize `json:"size" yaml:"size"`
	N                  int     `json:"n" yaml:"n"`                                       // Number of weights (bits per unit)
	Ceiling            int     `json:"ceiling" yaml:"ceiling"`                           // Upper bound of the first weight
	MaxCoprimeAttempts int     `json:"max_coprime_attempts" yaml:"max_coprime_attempts"` // 0 means unbounded
}

// =============================================================================
// Key Types
// =============================================================================

// PrivateKey is the decrypting party's key: a superincreasing weight
// sequence, a modulus larger than its sum and a multiplier coprime to the
// modulus. A PrivateKey never changes after construction.
type PrivateKey struct {
	weights    []*big.Int
	modulus    *big.Int
	multiplier *big.Int
}

// NewPrivateKey copies the given material into a PrivateKey after checking
// that the weights are superincreasing, that modulus exceeds their sum and
// that multiplier is coprime to modulus.
func NewPrivateKey(weights []*big.Int, modulus, multiplier *big.Int) (*PrivateKey, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: empty weight sequence", ErrInvalidKey)
	}
	if modulus == nil || multiplier == nil {
		return nil, fmt.Errorf("%w: missing modulus or multiplier", ErrInvalidKey)
	}

	total := new(big.Int)
	for i, w := range weights {
		if w == nil || w.Sign() <= 0 {
			return nil, fmt.Errorf("%w: weight %d is not positive", ErrInvalidKey, i)
		}
		if w.Cmp(total) <= 0 {
			return nil, fmt.Errorf("%w: weight %d does not exceed the sum of its predecessors", ErrInvalidKey, i)
		}
		total.Add(total, w)
	}
	if modulus.Cmp(total) <= 0 {
		return nil, fmt.Errorf("%w: modulus %s does not exceed weight sum %s", ErrInvalidKey, modulus, total)
	}
	if multiplier.Sign() <= 0 || multiplier.Cmp(modulus) >= 0 {
		return nil, fmt.Errorf("%w: multiplier outside [1, modulus)", ErrInvalidKey)
	}
	if new(big.Int).GCD(nil, nil, multiplier, modulus).Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("%w: multiplier shares a factor with modulus", ErrInvalidKey)
	}

	return &PrivateKey{
		weights:    copyInts(weights),
		modulus:    new(big.Int).Set(modulus),
		multiplier: new(big.Int).Set(multiplier),
	}, nil
}

// Len returns the number of weights, which is the number of bits per unit.
func (sk *PrivateKey) Len() int { return len(sk.weights) }

// Weights returns a copy of the superincreasing weight sequence.
func (sk *PrivateKey) Weights() []*big.Int { return copyInts(sk.weights) }

// Modulus returns a copy of the modulus Q.
func (sk *PrivateKey) Modulus() *big.Int { return new(big.Int).Set(sk.modulus) }

// Multiplier returns a copy of the multiplier R.
func (sk *PrivateKey) Multiplier() *big.Int { return new(big.Int).Set(sk.multiplier) }

// PublicKey is the published weight sequence, R*w mod Q for each private
// weight w. It carries no superincreasing structure.
type PublicKey struct {
	weights []*big.Int
}

// NewPublicKey copies weights into a PublicKey.
func NewPublicKey(weights []*big.Int) (*PublicKey, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: empty public key", ErrInvalidKey)
	}
	for i, w := range weights {
		if w == nil || w.Sign() < 0 {
			return nil, fmt.Errorf("%w: public weight %d is negative", ErrInvalidKey, i)
		}
	}
	return &PublicKey{weights: copyInts(weights)}, nil
}

// Len returns the number of public weights.
func (pk *PublicKey) Len() int { return len(pk.weights) }

// Weights returns a copy of the public weight sequence.
func (pk *PublicKey) Weights() []*big.Int { return copyInts(pk.weights) }

// Equal reports whether two public keys carry the same weights.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return intsEqual(pk.weights, other.weights)
}

// Equal reports whether two private keys carry the same material.
func (sk *PrivateKey) Equal(other *PrivateKey) bool {
	if sk == nil || other == nil {
		return sk == other
	}
	return intsEqual(sk.weights, other.weights) &&
		sk.modulus.Cmp(other.modulus) == 0 &&
		sk.multiplier.Cmp(other.multiplier) == 0
}

// KeyPair contains both halves of a knapsack key.
type KeyPair struct {
	PublicKey  *PublicKey
	PrivateKey *PrivateKey
}

// =============================================================================
// Ciphertext
// =============================================================================

// Ciphertext holds one subset sum per encrypted unit, in plaintext order.
type Ciphertext []*big.Int

// Strings renders every value in base 10.
func (ct Ciphertext) Strings() []string {
	out := make([]string, len(ct))
	for i, c := range ct {
		out[i] = c.String()
	}
	return out
}

func copyInts(in []*big.Int) []*big.Int {
	out := make([]*big.Int, len(in))
	for i, v := range in {
		out[i] = new(big.Int).Set(v)
	}
	return out
}

func intsEqual(a, b []*big.Int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}
