package knapsack

import (
	"fmt"
	"math/big"
	"runtime"
	"sync"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/arith"
	"github.com/BackendStack21/mhkc-go/core"
	"github.com/BackendStack21/mhkc-go/problems/superinc"
	"github.com/BackendStack21/mhkc-go/utils"
)

// parallelThreshold is the unit count below which encryption and
// decryption stay on the calling goroutine.
const parallelThreshold = 256

// Encrypt encrypts every code point of plaintext with pk, in order.
//
// Each code point is written as a len(pk)-bit binary number, most
// significant bit first, and the public weights selected by its 1 bits are
// summed. A code point that needs more bits than the key has fails with
// mhkc.ErrEncodingOverflow; nothing is truncated and no partial ciphertext
// is returned.
func Encrypt(pk *mhkc.PublicKey, plaintext []rune) (mhkc.Ciphertext, error) {
	if pk == nil {
		return nil, fmt.Errorf("%w: nil public key", mhkc.ErrInvalidKey)
	}
	if err := utils.CheckLength(len(plaintext), utils.MaxCiphertextLength); err != nil {
		return nil, fmt.Errorf("plaintext of %d units: %w", len(plaintext), err)
	}

	weights := pk.Weights()
	n := len(weights)
	for i, c := range plaintext {
		if c < 0 || core.BitsNeeded(c) > n {
			return nil, fmt.Errorf("%w: code point %d at position %d needs %d bits, key has %d",
				mhkc.ErrEncodingOverflow, c, i, core.BitsNeeded(c), n)
		}
	}

	ct := make(mhkc.Ciphertext, len(plaintext))
	err := forEachUnit(len(plaintext), func(i int) error {
		ct[i] = encodeUnit(uint32(plaintext[i]), weights)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ct, nil
}

// encodeUnit returns the sum of weights[i] over the 1 bits of c, where bit
// i counts from the most significant end of an n-bit field.
func encodeUnit(c uint32, weights []*big.Int) *big.Int {
	n := len(weights)
	sum := new(big.Int)
	for i, w := range weights {
		shift := uint(n - 1 - i)
		if shift < 32 && (c>>shift)&1 == 1 {
			sum.Add(sum, w)
		}
	}
	return sum
}

// Decrypt recovers the code points of ct with sk.
//
// Every value c is mapped to c*S mod Q, where S is the inverse of the
// multiplier, which turns it back into a subset sum of the superincreasing
// private weights. That sum is solved greedily and its bit pattern read as
// a binary number. A value that does not decode under sk fails the whole
// call with mhkc.ErrInvalidCiphertext.
func Decrypt(sk *mhkc.PrivateKey, ct mhkc.Ciphertext) ([]rune, error) {
	if sk == nil {
		return nil, fmt.Errorf("%w: nil private key", mhkc.ErrInvalidKey)
	}
	if err := utils.CheckLength(len(ct), utils.MaxCiphertextLength); err != nil {
		return nil, fmt.Errorf("ciphertext of %d units: %w", len(ct), err)
	}

	q := sk.Modulus()
	weights := sk.Weights()
	s, err := arith.ModInverse(sk.Multiplier(), q)
	if err != nil {
		return nil, err
	}

	out := make([]rune, len(ct))
	err = forEachUnit(len(ct), func(i int) error {
		c := ct[i]
		if c == nil || c.Sign() < 0 {
			return fmt.Errorf("%w: value %d is negative or missing", mhkc.ErrInvalidCiphertext, i)
		}

		target := new(big.Int).Mul(c, s)
		target.Mod(target, q)

		bits, err := superinc.Solve(target, weights)
		if err != nil {
			return fmt.Errorf("%w: value %d: %w", mhkc.ErrInvalidCiphertext, i, err)
		}

		r, ok := decodeBits(bits)
		if !ok {
			return fmt.Errorf("%w: value %d decodes past the code point range", mhkc.ErrInvalidCiphertext, i)
		}
		out[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decodeBits reads bits, most significant first, as a non-negative rune.
func decodeBits(bits []byte) (rune, bool) {
	n := len(bits)
	var v uint32
	for i, b := range bits {
		if b == 0 {
			continue
		}
		pos := n - 1 - i
		if pos >= 31 {
			return 0, false
		}
		v |= 1 << uint(pos)
	}
	return rune(v), true
}

// EncryptString encrypts the code points of a UTF-8 string.
func EncryptString(pk *mhkc.PublicKey, plaintext string) (mhkc.Ciphertext, error) {
	return Encrypt(pk, []rune(plaintext))
}

// DecryptString decrypts ct into a string.
func DecryptString(sk *mhkc.PrivateKey, ct mhkc.Ciphertext) (string, error) {
	runes, err := Decrypt(sk, ct)
	if err != nil {
		return "", err
	}
	return string(runes), nil
}

// EncryptBytes encrypts every byte of data as its own unit.
func EncryptBytes(pk *mhkc.PublicKey, data []byte) (mhkc.Ciphertext, error) {
	units := make([]rune, len(data))
	for i, b := range data {
		units[i] = rune(b)
	}
	return Encrypt(pk, units)
}

// DecryptBytes decrypts ct into bytes. Every unit must fit in a byte.
func DecryptBytes(sk *mhkc.PrivateKey, ct mhkc.Ciphertext) ([]byte, error) {
	runes, err := Decrypt(sk, ct)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(runes))
	for i, r := range runes {
		if r > 0xFF {
			return nil, fmt.Errorf("%w: unit %d decodes to %d, not a byte", mhkc.ErrInvalidCiphertext, i, r)
		}
		out[i] = byte(r)
	}
	return out, nil
}

// forEachUnit runs fn for every index in [0, count). Large inputs are split
// across GOMAXPROCS workers. The first error wins.
func forEachUnit(count int, fn func(i int) error) error {
	numWorkers := runtime.GOMAXPROCS(0)
	if count < parallelThreshold || numWorkers <= 1 {
		for i := 0; i < count; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	perWorker := (count + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > count {
			end = count
		}
		if start >= count {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if err := fn(i); err != nil {
					once.Do(func() { firstErr = err })
					return
				}
			}
		}(start, end)
	}
	wg.Wait()
	return firstErr
}
