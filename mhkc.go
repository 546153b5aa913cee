// Package mhkc implements the Merkle-Hellman Knapsack Cryptosystem together
// with the classical Caesar and Vigenère letter-shift ciphers.
// This package holds the shared value types and errors; the algorithms live in
// the sub-packages so callers can import only what they need.
package mhkc

// Version of the mhkc-go implementation.
const Version = "1.0.0"

// API summary:
//
// Knapsack cryptosystem:
//   - knapsack.GenerateKeyPair(size) - Generate a key pair for the given key size
//   - knapsack.GeneratePrivateKey(r, params) - Generate a private key from a randomness source
//   - knapsack.GeneratePrivateKeyFromSeed(params, seed) - Deterministic private key
//   - knapsack.CreatePublicKey(sk) - Derive the public key
//   - knapsack.Encrypt(pk, plaintext) - Encrypt a sequence of code points
//   - knapsack.Decrypt(sk, ciphertext) - Recover the code points
//
// Letter-shift ciphers:
//   - classical.EncryptCaesar(text, offset) / classical.DecryptCaesar(text, offset)
//   - classical.EncryptVigenere(text, keyword) / classical.DecryptVigenere(text, keyword)
//
// Building blocks:
//   - arith.ExtendedGCD(a, b), arith.ModInverse(a, m)
//   - superinc.Generate(r, n, ceiling), superinc.Solve(target, weights)
//   - core.GetParams(size) - Parameters for a named key size
