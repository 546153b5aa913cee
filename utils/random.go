package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"
	"runtime"
)

// RandReader is the default randomness source for key generation.
var RandReader io.Reader = rand.Reader

var bigOne = big.NewInt(1)

// SecureRandomBytes generates n cryptographically secure random bytes.
// It uses crypto/rand, which relies on the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	_, err := io.ReadFull(RandReader, buf)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomInt generates a random integer in [0, max) read from r.
// It uses rejection sampling to ensure a uniform distribution.
func RandomInt(r io.Reader, max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, errors.New("max must be positive")
	}
	if max.Cmp(bigOne) == 0 {
		return new(big.Int), nil
	}

	// Calculate number of bytes needed
	bitsNeeded := new(big.Int).Sub(max, bigOne).BitLen()
	bytesNeeded := (bitsNeeded + 7) / 8
	topMask := byte(0xFF >> uint(bytesNeeded*8-bitsNeeded))

	buf := make([]byte, bytesNeeded)
	value := new(big.Int)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("reading randomness: %w", err)
		}
		buf[0] &= topMask
		value.SetBytes(buf)

		if value.Cmp(max) < 0 {
			return value, nil
		}
	}
}

// RandomRange generates a random integer in the closed range [lo, hi] read from r.
func RandomRange(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo == nil || hi == nil || hi.Cmp(lo) < 0 {
		return nil, fmt.Errorf("empty range [%v, %v]", lo, hi)
	}
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, bigOne)

	v, err := RandomInt(r, span)
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}

// ValidateSeedEntropy checks if a seed has sufficient entropy.
// It performs basic statistical tests to reject obviously weak seeds (e.g., all zeros, sequential).
// This is a sanity check, not a rigorous randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < MinSeedLength {
		return fmt.Errorf("seed must be at least %d bytes", MinSeedLength)
	}

	// Check for all bytes identical
	first := seed[0]
	allSame := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != first {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("seed has low entropy: all bytes are identical")
	}

	// Check for sequential patterns
	isAscending := true
	isDescending := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != seed[i-1]+1 {
			isAscending = false
		}
		if seed[i] != seed[i-1]-1 {
			isDescending = false
		}
		if !isAscending && !isDescending {
			break
		}
	}
	if isAscending || isDescending {
		return errors.New("seed has low entropy: sequential pattern detected")
	}

	unique := make(map[byte]struct{})
	for _, b := range seed {
		unique[b] = struct{}{}
		if len(unique) >= 8 {
			break
		}
	}
	if len(unique) < 8 {
		return errors.New("seed has low entropy: insufficient byte diversity")
	}

	return nil
}

// ConstantTimeEqual compares two byte slices in constant time.
// It returns true if the slices are equal, false otherwise.
// This function leaks only the length of the slices.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites a byte slice with zeros.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
