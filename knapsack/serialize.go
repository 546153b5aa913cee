package knapsack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/utils"
)

// Every integer is written as a little-endian u32 byte length followed by
// its big-endian magnitude. Lists carry a u32 element count first.

func appendInt(buf []byte, v *big.Int) []byte {
	mag := v.Bytes()
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(mag)))
	buf = append(buf, lenBuf...)
	return append(buf, mag...)
}

func appendInts(buf []byte, vs []*big.Int) []byte {
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(vs)))
	buf = append(buf, lenBuf...)
	for _, v := range vs {
		buf = appendInt(buf, v)
	}
	return buf
}

func readInt(data []byte, offset int) (*big.Int, int, error) {
	size, offset, err := utils.SafeReadLength(data, offset, utils.MaxIntegerBytes)
	if err != nil {
		return nil, offset, err
	}
	if err := utils.ValidateSliceAccess(data, offset, size); err != nil {
		return nil, offset, err
	}
	return new(big.Int).SetBytes(data[offset : offset+size]), offset + size, nil
}

func readInts(data []byte, offset, maxCount int) ([]*big.Int, int, error) {
	count, offset, err := utils.SafeReadLength(data, offset, maxCount)
	if err != nil {
		return nil, offset, err
	}
	// Every element needs at least its 4-byte length prefix.
	if count > (len(data)-offset)/4 {
		return nil, offset, errors.New("truncated integer list")
	}
	out := make([]*big.Int, count)
	for i := range out {
		out[i], offset, err = readInt(data, offset)
		if err != nil {
			return nil, offset, fmt.Errorf("element %d: %w", i, err)
		}
	}
	return out, offset, nil
}

// SerializePublicKey serializes a public key.
func SerializePublicKey(pk *mhkc.PublicKey) []byte {
	return appendInts(nil, pk.Weights())
}

// DeserializePublicKey deserializes a public key.
func DeserializePublicKey(data []byte) (*mhkc.PublicKey, error) {
	weights, offset, err := readInts(data, 0, utils.MaxKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: public key: %w", mhkc.ErrInvalidKey, err)
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: public key has %d trailing bytes", mhkc.ErrInvalidKey, len(data)-offset)
	}
	return mhkc.NewPublicKey(weights)
}

// SerializePrivateKey serializes a private key: weights, modulus, multiplier.
func SerializePrivateKey(sk *mhkc.PrivateKey) []byte {
	buf := appendInts(nil, sk.Weights())
	buf = appendInt(buf, sk.Modulus())
	return appendInt(buf, sk.Multiplier())
}

// DeserializePrivateKey deserializes a private key and re-checks its invariants.
func DeserializePrivateKey(data []byte) (*mhkc.PrivateKey, error) {
	weights, offset, err := readInts(data, 0, utils.MaxKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: private key weights: %w", mhkc.ErrInvalidKey, err)
	}
	modulus, offset, err := readInt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: private key modulus: %w", mhkc.ErrInvalidKey, err)
	}
	multiplier, offset, err := readInt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: private key multiplier: %w", mhkc.ErrInvalidKey, err)
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: private key has %d trailing bytes", mhkc.ErrInvalidKey, len(data)-offset)
	}
	return mhkc.NewPrivateKey(weights, modulus, multiplier)
}

// SerializeCiphertext serializes a ciphertext.
func SerializeCiphertext(ct mhkc.Ciphertext) []byte {
	return appendInts(nil, ct)
}

// DeserializeCiphertext deserializes a ciphertext.
func DeserializeCiphertext(data []byte) (mhkc.Ciphertext, error) {
	values, offset, err := readInts(data, 0, utils.MaxCiphertextLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mhkc.ErrInvalidCiphertext, err)
	}
	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", mhkc.ErrInvalidCiphertext, len(data)-offset)
	}
	return mhkc.Ciphertext(values), nil
}
