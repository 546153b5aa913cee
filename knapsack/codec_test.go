package knapsack

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/core"
	"github.com/BackendStack21/mhkc-go/problems/superinc"
	"github.com/BackendStack21/mhkc-go/utils"
)

func TestFixedKeyScenario(t *testing.T) {
	sk := fixedKey(t)
	pk, err := CreatePublicKey(sk)
	if err != nil {
		t.Fatal(err)
	}

	// 0b1011 selects public weights 7, 1 and 16
	ct, err := Encrypt(pk, []rune{0b1011})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if len(ct) != 1 || ct[0].Int64() != 24 {
		t.Fatalf("Encrypt(1011) = %v, want [24]", ct.Strings())
	}

	pt, err := Decrypt(sk, mhkc.Ciphertext{big.NewInt(24)})
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if len(pt) != 1 || pt[0] != 0b1011 {
		t.Fatalf("Decrypt(24) = %v, want [11]", pt)
	}
}

func TestFixedKey_AllUnits(t *testing.T) {
	sk := fixedKey(t)
	pk, _ := CreatePublicKey(sk)

	units := make([]rune, 16)
	for i := range units {
		units[i] = rune(i)
	}
	ct, err := Encrypt(pk, units)
	if err != nil {
		t.Fatal(err)
	}
	pt, err := Decrypt(sk, ct)
	if err != nil {
		t.Fatal(err)
	}
	for i := range units {
		if pt[i] != units[i] {
			t.Errorf("unit %d: got %d, want %d", i, pt[i], units[i])
		}
	}
}

func TestRoundTrip_Bytes(t *testing.T) {
	kp, err := GenerateKeyPair(mhkc.Byte)
	if err != nil {
		t.Fatal(err)
	}

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	ct, err := EncryptBytes(kp.PublicKey, all)
	if err != nil {
		t.Fatalf("EncryptBytes failed: %v", err)
	}
	if len(ct) != len(all) {
		t.Fatalf("ciphertext has %d values, want %d", len(ct), len(all))
	}
	got, err := DecryptBytes(kp.PrivateKey, ct)
	if err != nil {
		t.Fatalf("DecryptBytes failed: %v", err)
	}
	if !bytes.Equal(got, all) {
		t.Error("byte round trip mismatch")
	}
}

func TestRoundTrip_Strings(t *testing.T) {
	tests := []struct {
		size mhkc.KeySize
		text string
	}{
		{mhkc.Byte, "HELLO"},
		{mhkc.Byte, "Hello, World! 123"},
		{mhkc.Byte, ""},
		{mhkc.Byte, "café"},
		{mhkc.BMP, "Ελληνικά και 日本語"},
		{mhkc.Unicode, "emoji 🔐 and 𝄞"},
	}

	for _, tt := range tests {
		kp, err := GenerateKeyPair(tt.size)
		if err != nil {
			t.Fatal(err)
		}
		ct, err := EncryptString(kp.PublicKey, tt.text)
		if err != nil {
			t.Fatalf("EncryptString(%q, %s) failed: %v", tt.text, tt.size, err)
		}
		got, err := DecryptString(kp.PrivateKey, ct)
		if err != nil {
			t.Fatalf("DecryptString(%s) failed: %v", tt.size, err)
		}
		if got != tt.text {
			t.Errorf("round trip with %s key: got %q, want %q", tt.size, got, tt.text)
		}
	}
}

func TestRoundTrip_NoCaseFolding(t *testing.T) {
	kp, _ := GenerateKeyPair(mhkc.Byte)
	ct, _ := EncryptString(kp.PublicKey, "MiXeD")
	got, _ := DecryptString(kp.PrivateKey, ct)
	if got != "MiXeD" {
		t.Errorf("got %q, want case preserved", got)
	}
}

func TestRoundTrip_Parallel(t *testing.T) {
	kp, err := GenerateKeyPair(mhkc.BMP)
	if err != nil {
		t.Fatal(err)
	}
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 100)

	ct, err := EncryptString(kp.PublicKey, text)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecryptString(kp.PrivateKey, ct)
	if err != nil {
		t.Fatal(err)
	}
	if got != text {
		t.Error("parallel round trip mismatch")
	}
}

func TestEncrypt_Overflow(t *testing.T) {
	kp, _ := GenerateKeyPair(mhkc.Byte)

	_, err := Encrypt(kp.PublicKey, []rune{'a', 256, 'b'})
	if !errors.Is(err, mhkc.ErrEncodingOverflow) {
		t.Errorf("Encrypt(256) with 8-bit key = %v, want ErrEncodingOverflow", err)
	}

	_, err = EncryptString(kp.PublicKey, "日本")
	if !errors.Is(err, mhkc.ErrEncodingOverflow) {
		t.Errorf("EncryptString(CJK) with 8-bit key = %v, want ErrEncodingOverflow", err)
	}

	_, err = Encrypt(kp.PublicKey, []rune{-1})
	if !errors.Is(err, mhkc.ErrEncodingOverflow) {
		t.Errorf("Encrypt(-1) = %v, want ErrEncodingOverflow", err)
	}

	// The fixed 4-bit key cannot carry 16
	pk, _ := CreatePublicKey(fixedKey(t))
	ct, err := Encrypt(pk, []rune{15, 16})
	if !errors.Is(err, mhkc.ErrEncodingOverflow) {
		t.Errorf("Encrypt(16) with 4-bit key = %v, want ErrEncodingOverflow", err)
	}
	if ct != nil {
		t.Error("failed encryption returned partial ciphertext")
	}
}

func TestEncrypt_NilKey(t *testing.T) {
	if _, err := Encrypt(nil, []rune("x")); !errors.Is(err, mhkc.ErrInvalidKey) {
		t.Errorf("Encrypt(nil) = %v, want ErrInvalidKey", err)
	}
	if _, err := Decrypt(nil, mhkc.Ciphertext{big.NewInt(1)}); !errors.Is(err, mhkc.ErrInvalidKey) {
		t.Errorf("Decrypt(nil) = %v, want ErrInvalidKey", err)
	}
}

func TestDecrypt_InvalidCiphertext(t *testing.T) {
	sk := fixedKey(t)

	// 18 maps to 18*4 mod 27 = 18, above every subset sum of [1, 2, 4, 10]
	_, err := Decrypt(sk, mhkc.Ciphertext{big.NewInt(24), big.NewInt(18)})
	if !errors.Is(err, mhkc.ErrInvalidCiphertext) {
		t.Errorf("Decrypt(18) = %v, want ErrInvalidCiphertext", err)
	}
	if !errors.Is(err, superinc.ErrNoSolution) {
		t.Errorf("Decrypt(18) should wrap ErrNoSolution, got %v", err)
	}

	_, err = Decrypt(sk, mhkc.Ciphertext{big.NewInt(-3)})
	if !errors.Is(err, mhkc.ErrInvalidCiphertext) {
		t.Errorf("Decrypt(-3) = %v, want ErrInvalidCiphertext", err)
	}

	pt, err := Decrypt(sk, mhkc.Ciphertext{nil})
	if !errors.Is(err, mhkc.ErrInvalidCiphertext) || pt != nil {
		t.Errorf("Decrypt(nil value) = %v, %v; want ErrInvalidCiphertext and no output", pt, err)
	}
}

func TestDecrypt_Empty(t *testing.T) {
	pt, err := Decrypt(fixedKey(t), nil)
	if err != nil || len(pt) != 0 {
		t.Errorf("Decrypt(empty) = %v, %v", pt, err)
	}
}

func TestDecrypt_WideKey(t *testing.T) {
	kp, err := GenerateKeyPairWithParams(utils.RandReader, core.ParamsForBits(40))
	if err != nil {
		t.Fatal(err)
	}
	ct, err := EncryptString(kp.PublicKey, "wide")
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecryptString(kp.PrivateKey, ct)
	if err != nil || got != "wide" {
		t.Fatalf("wide key round trip = %q, %v", got, err)
	}

	// The first public weight is the most significant of 40 bits, past any rune.
	_, err = Decrypt(kp.PrivateKey, mhkc.Ciphertext{kp.PublicKey.Weights()[0]})
	if !errors.Is(err, mhkc.ErrInvalidCiphertext) {
		t.Errorf("expected ErrInvalidCiphertext for out-of-range unit, got %v", err)
	}
}

func TestDecryptBytes_NonByteUnit(t *testing.T) {
	kp, _ := GenerateKeyPair(mhkc.BMP)
	ct, _ := Encrypt(kp.PublicKey, []rune{'a', 0x100})
	if _, err := DecryptBytes(kp.PrivateKey, ct); !errors.Is(err, mhkc.ErrInvalidCiphertext) {
		t.Errorf("DecryptBytes with wide unit = %v, want ErrInvalidCiphertext", err)
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	kp1, _ := GenerateKeyPair(mhkc.Byte)
	kp2, _ := GenerateKeyPair(mhkc.Byte)

	ct, _ := EncryptString(kp1.PublicKey, "secret message")
	got, err := DecryptString(kp2.PrivateKey, ct)
	if err == nil && got == "secret message" {
		t.Error("decryption with an unrelated key recovered the plaintext")
	}
}

func BenchmarkEncrypt_Byte(b *testing.B) {
	kp, err := GenerateKeyPair(mhkc.Byte)
	if err != nil {
		b.Fatal(err)
	}
	msg := []rune(strings.Repeat("benchmark ", 10))

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Encrypt(kp.PublicKey, msg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecrypt_Byte(b *testing.B) {
	kp, err := GenerateKeyPair(mhkc.Byte)
	if err != nil {
		b.Fatal(err)
	}
	ct, err := EncryptString(kp.PublicKey, strings.Repeat("benchmark ", 10))
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Decrypt(kp.PrivateKey, ct); err != nil {
			b.Fatal(err)
		}
	}
}
