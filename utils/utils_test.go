package utils

import (
	"bytes"
	"errors"
	"io"
	"math/big"
	"testing"

	"golang.org/x/crypto/sha3"
)

type errorReader struct{}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("simulated rand error")
}

func TestSecureRandomBytes(t *testing.T) {
	b, err := SecureRandomBytes(32)
	if err != nil {
		t.Fatalf("SecureRandomBytes failed: %v", err)
	}
	if len(b) != 32 {
		t.Errorf("Expected 32 bytes, got %d", len(b))
	}

	b2, _ := SecureRandomBytes(32)
	if bytes.Equal(b, b2) {
		t.Error("SecureRandomBytes returned duplicate values")
	}
}

func TestSecureRandomBytes_RandError(t *testing.T) {
	old := RandReader
	RandReader = &errorReader{}
	defer func() { RandReader = old }()

	_, err := SecureRandomBytes(32)
	if err == nil {
		t.Error("expected error from rand failure")
	}
}

func TestRandomInt(t *testing.T) {
	// Test edge cases
	if _, err := RandomInt(RandReader, big.NewInt(0)); err == nil {
		t.Error("RandomInt(0) should fail")
	}
	if _, err := RandomInt(RandReader, big.NewInt(-5)); err == nil {
		t.Error("RandomInt(-5) should fail")
	}
	if _, err := RandomInt(RandReader, nil); err == nil {
		t.Error("RandomInt(nil) should fail")
	}

	val, err := RandomInt(RandReader, big.NewInt(1))
	if err != nil {
		t.Errorf("RandomInt(1) failed: %v", err)
	}
	if val.Sign() != 0 {
		t.Errorf("RandomInt(1) should return 0, got %s", val)
	}

	// Test range, including a bound that is not a power of two
	for _, max := range []int64{2, 100, 257, 1 << 20} {
		bound := big.NewInt(max)
		for i := 0; i < 500; i++ {
			v, err := RandomInt(RandReader, bound)
			if err != nil {
				t.Fatalf("RandomInt failed: %v", err)
			}
			if v.Sign() < 0 || v.Cmp(bound) >= 0 {
				t.Fatalf("RandomInt returned value out of range [0, %d): %s", max, v)
			}
		}
	}
}

func TestRandomInt_CoversSmallRange(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		v, err := RandomInt(RandReader, big.NewInt(5))
		if err != nil {
			t.Fatal(err)
		}
		seen[v.Int64()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected all 5 values to appear, saw %v", seen)
	}
}

func TestRandomInt_ReaderError(t *testing.T) {
	if _, err := RandomInt(&errorReader{}, big.NewInt(100)); err == nil {
		t.Error("expected error from failing reader")
	}
}

func TestRandomRange(t *testing.T) {
	lo, hi := big.NewInt(11), big.NewInt(20)
	for i := 0; i < 500; i++ {
		v, err := RandomRange(RandReader, lo, hi)
		if err != nil {
			t.Fatalf("RandomRange failed: %v", err)
		}
		if v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
			t.Fatalf("RandomRange returned %s outside [11, 20]", v)
		}
	}

	// Degenerate single-value range
	v, err := RandomRange(RandReader, big.NewInt(7), big.NewInt(7))
	if err != nil || v.Int64() != 7 {
		t.Errorf("RandomRange(7, 7) = %v, %v", v, err)
	}

	if _, err := RandomRange(RandReader, hi, lo); err == nil {
		t.Error("RandomRange with hi < lo should fail")
	}
}

func TestShakeReader(t *testing.T) {
	seed := []byte("deterministic seed")

	a := make([]byte, 64)
	b := make([]byte, 64)
	if _, err := io.ReadFull(NewShakeReader(seed), a); err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadFull(NewShakeReader(seed), b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("NewShakeReader not deterministic")
	}

	c := make([]byte, 64)
	if _, err := io.ReadFull(NewShakeReader([]byte("other seed")), c); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a, c) {
		t.Error("different seeds produced identical streams")
	}

	// Domain separation from the plain XOF
	plain := make([]byte, 64)
	sha3.ShakeSum256(plain, seed)
	if bytes.Equal(a, plain) {
		t.Error("NewShakeReader should differ from SHAKE256 over the raw seed")
	}
}

func TestRandomRange_Deterministic(t *testing.T) {
	seed := []byte("range seed")
	r1 := NewShakeReader(seed)
	r2 := NewShakeReader(seed)
	lo, hi := big.NewInt(1), big.NewInt(100)
	for i := 0; i < 50; i++ {
		a, err := RandomRange(r1, lo, hi)
		if err != nil {
			t.Fatal(err)
		}
		b, err := RandomRange(r2, lo, hi)
		if err != nil {
			t.Fatal(err)
		}
		if a.Cmp(b) != 0 {
			t.Fatalf("draw %d differs: %s vs %s", i, a, b)
		}
	}
}

func TestValidateSeedEntropy(t *testing.T) {
	// Test all zeros
	zeros := make([]byte, 32)
	if err := ValidateSeedEntropy(zeros); err == nil {
		t.Error("ValidateSeedEntropy should reject all zeros")
	}

	// Test sequential
	seq := make([]byte, 32)
	for i := range seq {
		seq[i] = byte(i)
	}
	if err := ValidateSeedEntropy(seq); err == nil {
		t.Error("ValidateSeedEntropy should reject sequential bytes")
	}

	// Test short
	if err := ValidateSeedEntropy([]byte{1, 2, 3}); err == nil {
		t.Error("ValidateSeedEntropy should reject short seeds")
	}

	// Test good seed
	good, _ := SecureRandomBytes(32)
	if err := ValidateSeedEntropy(good); err != nil {
		t.Errorf("ValidateSeedEntropy rejected good seed: %v", err)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3}
	c := []byte{1, 2, 4}

	if !ConstantTimeEqual(a, b) {
		t.Error("ConstantTimeEqual failed for equal slices")
	}
	if ConstantTimeEqual(a, c) {
		t.Error("ConstantTimeEqual passed for unequal slices")
	}
	if ConstantTimeEqual(a, a[:2]) {
		t.Error("ConstantTimeEqual passed for different lengths")
	}
	if !ConstantTimeEqual(nil, []byte{}) {
		t.Error("ConstantTimeEqual failed for empty slices")
	}
}

func TestZeroize(t *testing.T) {
	b := []byte{1, 2, 3}
	Zeroize(b)
	for _, v := range b {
		if v != 0 {
			t.Error("Zeroize failed")
		}
	}
}

func TestHashWithDomain(t *testing.T) {
	data := []byte("test")
	raw := sha3.Sum256(data)

	dHash := HashWithDomain("domain", data)
	if len(dHash) != 32 {
		t.Errorf("HashWithDomain returned wrong length: %d", len(dHash))
	}
	if bytes.Equal(dHash, raw[:]) {
		t.Error("HashWithDomain should differ from raw hash")
	}
	if bytes.Equal(dHash, HashWithDomain("other", data)) {
		t.Error("different domains produced identical hashes")
	}
	// the domain length prefix keeps boundaries unambiguous
	if bytes.Equal(HashWithDomain("ab", []byte("c")), HashWithDomain("a", []byte("bc"))) {
		t.Error("HashWithDomain should length-prefix the domain")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for oversized domain")
		}
	}()
	HashWithDomain(string(make([]byte, 256)), data)
}
