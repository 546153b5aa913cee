// Package core provides parameter sets and validation for knapsack keys.
package core

import (
	"fmt"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/utils"
)

const (
	// DefaultCeiling bounds the first weight of the superincreasing sequence.
	DefaultCeiling = 100

	// DefaultMaxCoprimeAttempts bounds the multiplier search.
	DefaultMaxCoprimeAttempts = 1 << 16
)

// ByteParams is the default parameter set: 8 weights, one byte per unit.
var ByteParams = mhkc.Params{
	Size:               mhkc.Byte,
	N:                  8,
	Ceiling:            DefaultCeiling,
	MaxCoprimeAttempts: DefaultMaxCoprimeAttempts,
}

// BMPParams covers every code point of the Basic Multilingual Plane.
var BMPParams = mhkc.Params{
	Size:               mhkc.BMP,
	N:                  16,
	Ceiling:            DefaultCeiling,
	MaxCoprimeAttempts: DefaultMaxCoprimeAttempts,
}

// UnicodeParams covers every Unicode code point (U+10FFFF needs 21 bits).
var UnicodeParams = mhkc.Params{
	Size:               mhkc.Unicode,
	N:                  21,
	Ceiling:            DefaultCeiling,
	MaxCoprimeAttempts: DefaultMaxCoprimeAttempts,
}

// GetParams returns the parameter set for the given key size.
func GetParams(size mhkc.KeySize) (mhkc.Params, error) {
	switch size {
	case mhkc.Byte:
		return ByteParams, nil
	case mhkc.BMP:
		return BMPParams, nil
	case mhkc.Unicode:
		return UnicodeParams, nil
	default:
		return mhkc.Params{}, fmt.Errorf("unknown key size: %s", size)
	}
}

// ParamsForBits returns a parameter set with n weights and default bounds.
func ParamsForBits(n int) mhkc.Params {
	params := ByteParams
	params.Size = ""
	for _, p := range []mhkc.Params{ByteParams, BMPParams, UnicodeParams} {
		if p.N == n {
			params.Size = p.Size
		}
	}
	params.N = n
	return params
}

// ValidateParams validates the parameter set for consistency.
func ValidateParams(params mhkc.Params) error {
	if params.N < 1 {
		return mhkc.ErrInvalidKeyLength
	}
	if params.N > utils.MaxKeyLength {
		return fmt.Errorf("key length %d exceeds limit %d: %w", params.N, utils.MaxKeyLength, utils.ErrExceedsLimit)
	}
	if params.Ceiling < 1 {
		return mhkc.ErrInvalidCeiling
	}
	if params.MaxCoprimeAttempts < 0 {
		return fmt.Errorf("max coprime attempts must not be negative, got %d", params.MaxCoprimeAttempts)
	}
	return nil
}

// BitsNeeded returns the number of bits needed to write r in binary.
// Zero needs one bit.
func BitsNeeded(r rune) int {
	if r <= 0 {
		return 1
	}
	bits := 0
	for v := uint32(r); v > 0; v >>= 1 {
		bits++
	}
	return bits
}

// MaxCodePoint returns the largest code point a key of n weights can carry.
func MaxCodePoint(n int) rune {
	if n >= 31 {
		return 1<<31 - 1
	}
	return rune(1)<<uint(n) - 1
}
