package mhkc

import (
	"errors"
	"math/big"
	"testing"
)

func ints(vs ...int64) []*big.Int {
	out := make([]*big.Int, len(vs))
	for i, v := range vs {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestNewPrivateKey(t *testing.T) {
	sk, err := NewPrivateKey(ints(1, 2, 4, 10), big.NewInt(27), big.NewInt(7))
	if err != nil {
		t.Fatalf("NewPrivateKey failed: %v", err)
	}
	if sk.Len() != 4 {
		t.Errorf("Len() = %d, want 4", sk.Len())
	}
	if sk.Modulus().Int64() != 27 || sk.Multiplier().Int64() != 7 {
		t.Errorf("modulus/multiplier = %s/%s, want 27/7", sk.Modulus(), sk.Multiplier())
	}
}

func TestNewPrivateKeyRejects(t *testing.T) {
	tests := []struct {
		name       string
		weights    []*big.Int
		modulus    *big.Int
		multiplier *big.Int
	}{
		{"empty", nil, big.NewInt(27), big.NewInt(7)},
		{"nil modulus", ints(1, 2), nil, big.NewInt(7)},
		{"nil multiplier", ints(1, 2), big.NewInt(27), nil},
		{"zero weight", ints(0, 2), big.NewInt(27), big.NewInt(7)},
		{"nil weight", []*big.Int{big.NewInt(1), nil}, big.NewInt(27), big.NewInt(7)},
		{"not superincreasing", ints(1, 2, 3), big.NewInt(27), big.NewInt(7)},
		{"modulus equals sum", ints(1, 2, 4), big.NewInt(7), big.NewInt(2)},
		{"zero multiplier", ints(1, 2, 4), big.NewInt(27), big.NewInt(0)},
		{"multiplier equals modulus", ints(1, 2, 4), big.NewInt(27), big.NewInt(27)},
		{"common factor", ints(1, 2, 4), big.NewInt(27), big.NewInt(6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPrivateKey(tt.weights, tt.modulus, tt.multiplier)
			if !errors.Is(err, ErrInvalidKey) {
				t.Errorf("NewPrivateKey error = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestPrivateKeyIsImmutable(t *testing.T) {
	weights := ints(1, 2, 4, 10)
	modulus := big.NewInt(27)
	sk, err := NewPrivateKey(weights, modulus, big.NewInt(7))
	if err != nil {
		t.Fatal(err)
	}

	// caller-owned inputs
	weights[0].SetInt64(99)
	modulus.SetInt64(5)
	// returned copies
	sk.Weights()[1].SetInt64(99)
	sk.Modulus().SetInt64(5)
	sk.Multiplier().SetInt64(5)

	want, _ := NewPrivateKey(ints(1, 2, 4, 10), big.NewInt(27), big.NewInt(7))
	if !sk.Equal(want) {
		t.Error("private key changed through an alias")
	}
}

func TestNewPublicKey(t *testing.T) {
	pk, err := NewPublicKey(ints(7, 14, 1, 16))
	if err != nil {
		t.Fatal(err)
	}
	if pk.Len() != 4 {
		t.Errorf("Len() = %d, want 4", pk.Len())
	}
	pk.Weights()[0].SetInt64(0)
	if pk.Weights()[0].Int64() != 7 {
		t.Error("public key changed through an alias")
	}

	// non-negative is enough for a public weight
	if _, err := NewPublicKey(ints(0, 3)); err != nil {
		t.Errorf("zero weight rejected: %v", err)
	}
	for _, bad := range [][]*big.Int{nil, ints(3, -1), {big.NewInt(1), nil}} {
		if _, err := NewPublicKey(bad); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("NewPublicKey(%v) error = %v, want ErrInvalidKey", bad, err)
		}
	}
}

func TestEqual(t *testing.T) {
	a, _ := NewPublicKey(ints(7, 14, 1, 16))
	b, _ := NewPublicKey(ints(7, 14, 1, 16))
	c, _ := NewPublicKey(ints(7, 14, 1))
	d, _ := NewPublicKey(ints(7, 14, 1, 17))

	if !a.Equal(b) {
		t.Error("equal public keys reported different")
	}
	if a.Equal(c) || a.Equal(d) || a.Equal(nil) {
		t.Error("different public keys reported equal")
	}
	var nilKey *PublicKey
	if !nilKey.Equal(nil) {
		t.Error("nil keys should be equal")
	}

	sk1, _ := NewPrivateKey(ints(1, 2, 4, 10), big.NewInt(27), big.NewInt(7))
	sk2, _ := NewPrivateKey(ints(1, 2, 4, 10), big.NewInt(27), big.NewInt(5))
	if sk1.Equal(sk2) || sk1.Equal(nil) {
		t.Error("different private keys reported equal")
	}
}

func TestCiphertextStrings(t *testing.T) {
	ct := Ciphertext(ints(24, 0, 123456789))
	got := ct.Strings()
	want := []string{"24", "0", "123456789"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
