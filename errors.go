package mhkc

import "errors"

var (
	// ErrInvalidModulus indicates a modulus that cannot carry a multiplier
	// or an inverse (Q <= 2 for the coprime search, m <= 1 for inverses).
	ErrInvalidModulus = errors.New("invalid modulus")

	// ErrNoInverse indicates gcd(a, m) != 1, so a has no inverse modulo m.
	ErrNoInverse = errors.New("modular inverse does not exist")

	// ErrEncodingOverflow indicates a code point wider than the key length.
	ErrEncodingOverflow = errors.New("code point does not fit in key length")

	// ErrKeyLengthMismatch indicates keys or ciphertext of disagreeing lengths.
	ErrKeyLengthMismatch = errors.New("key length mismatch")

	// ErrInvalidKeyLength indicates a key length below one element.
	ErrInvalidKeyLength = errors.New("key length must be at least 1")

	// ErrInvalidCeiling indicates a seed ceiling below one.
	ErrInvalidCeiling = errors.New("seed ceiling must be at least 1")

	// ErrCoprimeSearchExhausted indicates the multiplier search hit its attempt bound.
	ErrCoprimeSearchExhausted = errors.New("no coprime multiplier found within attempt bound")

	// ErrInvalidCiphertext indicates a ciphertext value the private key cannot decode.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")

	// ErrInvalidKey indicates key material that violates its structural invariants.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidKeyword indicates an empty or non-alphabetic Vigenère keyword.
	ErrInvalidKeyword = errors.New("keyword must be non-empty and alphabetic")
)
