// Package knapsack implements Merkle-Hellman key generation, encryption and
// decryption.
package knapsack

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/arith"
	"github.com/BackendStack21/mhkc-go/core"
	"github.com/BackendStack21/mhkc-go/problems/superinc"
	"github.com/BackendStack21/mhkc-go/utils"
)

const (
	DomainKeyGen      = "mhkc-keygen-v1"
	DomainFingerprint = "mhkc-pk-fingerprint-v1"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// GenerateKeyPair generates a key pair for the given key size using
// utils.RandReader.
func GenerateKeyPair(size mhkc.KeySize) (*mhkc.KeyPair, error) {
	params, err := core.GetParams(size)
	if err != nil {
		return nil, err
	}
	return GenerateKeyPairWithParams(utils.RandReader, params)
}

// GenerateKeyPairWithParams generates a key pair from r.
func GenerateKeyPairWithParams(r io.Reader, params mhkc.Params) (*mhkc.KeyPair, error) {
	sk, err := GeneratePrivateKey(r, params)
	if err != nil {
		return nil, err
	}
	pk, err := CreatePublicKey(sk)
	if err != nil {
		return nil, err
	}
	return &mhkc.KeyPair{PublicKey: pk, PrivateKey: sk}, nil
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
func GenerateKeyPairFromSeed(params mhkc.Params, seed []byte) (*mhkc.KeyPair, error) {
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, err
	}
	stream := utils.NewShakeReader(utils.HashWithDomain(DomainKeyGen, seed))
	return GenerateKeyPairWithParams(stream, params)
}

// GeneratePrivateKeyFromSeed generates a deterministic private key from seed.
// The same params and seed always yield the same key.
func GeneratePrivateKeyFromSeed(params mhkc.Params, seed []byte) (*mhkc.PrivateKey, error) {
	kp, err := GenerateKeyPairFromSeed(params, seed)
	if err != nil {
		return nil, err
	}
	return kp.PrivateKey, nil
}

// GeneratePrivateKey draws a superincreasing sequence and a modulus from r,
// then searches for a multiplier coprime to the modulus.
func GeneratePrivateKey(r io.Reader, params mhkc.Params) (*mhkc.PrivateKey, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}

	weights, q, err := superinc.Generate(r, params.N, params.Ceiling)
	if err != nil {
		return nil, fmt.Errorf("generating weights: %w", err)
	}

	multiplier, err := FindMultiplier(r, q, params.MaxCoprimeAttempts)
	if err != nil {
		return nil, err
	}

	return mhkc.NewPrivateKey(weights, q, multiplier)
}

// FindMultiplier samples R uniformly from [2, q-1] until gcd(q, R) == 1.
// maxAttempts bounds the number of draws; zero means no bound.
// A modulus of 2 or less has no candidate and fails immediately.
func FindMultiplier(r io.Reader, q *big.Int, maxAttempts int) (*big.Int, error) {
	if q == nil || q.Cmp(bigTwo) <= 0 {
		return nil, fmt.Errorf("%w: coprime search needs q > 2, got %v", mhkc.ErrInvalidModulus, q)
	}
	if maxAttempts < 0 {
		return nil, errors.New("max attempts must not be negative")
	}

	hi := new(big.Int).Sub(q, bigOne)
	for attempt := 0; maxAttempts == 0 || attempt < maxAttempts; attempt++ {
		candidate, err := utils.RandomRange(r, bigTwo, hi)
		if err != nil {
			return nil, err
		}
		if arith.Coprime(q, candidate) {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("%w: %d attempts for q = %s", mhkc.ErrCoprimeSearchExhausted, maxAttempts, q)
}

// CreatePublicKey derives the public key (R * w) mod Q for every private
// weight w, preserving order.
func CreatePublicKey(sk *mhkc.PrivateKey) (*mhkc.PublicKey, error) {
	if sk == nil {
		return nil, fmt.Errorf("%w: nil private key", mhkc.ErrInvalidKey)
	}

	q := sk.Modulus()
	r := sk.Multiplier()
	weights := sk.Weights()

	public := make([]*big.Int, len(weights))
	for i, w := range weights {
		b := new(big.Int).Mul(r, w)
		public[i] = b.Mod(b, q)
	}
	return mhkc.NewPublicKey(public)
}

// CheckKeyPair reports whether pk is the public key derived from sk.
func CheckKeyPair(pk *mhkc.PublicKey, sk *mhkc.PrivateKey) error {
	if pk == nil || sk == nil {
		return fmt.Errorf("%w: nil key", mhkc.ErrInvalidKey)
	}
	if pk.Len() != sk.Len() {
		return fmt.Errorf("%w: public key has %d weights, private key has %d", mhkc.ErrKeyLengthMismatch, pk.Len(), sk.Len())
	}
	derived, err := CreatePublicKey(sk)
	if err != nil {
		return err
	}
	if !derived.Equal(pk) {
		return fmt.Errorf("%w: public key was not derived from this private key", mhkc.ErrInvalidKey)
	}
	return nil
}

// Fingerprint returns a domain-separated SHA3-256 digest of the public key.
func Fingerprint(pk *mhkc.PublicKey) []byte {
	return utils.HashWithDomain(DomainFingerprint, SerializePublicKey(pk))
}
