package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	mhkc "github.com/BackendStack21/mhkc-go"
	"github.com/BackendStack21/mhkc-go/internal/config"
	"github.com/BackendStack21/mhkc-go/knapsack"
	"github.com/BackendStack21/mhkc-go/utils"
)

// MaxInputFileSize bounds every file the CLI reads.
const MaxInputFileSize = 16 * 1024 * 1024

// keyFile is the exported form of a knapsack key. PrivateKey is empty for
// public-only exports.
type keyFile struct {
	KeyID       string `json:"key_id"`
	KeySize     string `json:"key_size,omitempty"`
	Bits        int    `json:"bits"`
	Encoding    string `json:"encoding"`
	PublicKey   string `json:"public_key"`
	PrivateKey  string `json:"private_key,omitempty"`
	Fingerprint string `json:"fingerprint"`
	CreatedAt   string `json:"created_at"`
}

// ciphertextFile is the exported form of an encrypted message. Values
// repeats the ciphertext in base 10 when the json format is selected.
type ciphertextFile struct {
	KeyID       string   `json:"key_id"`
	Fingerprint string   `json:"fingerprint"`
	Bits        int      `json:"bits"`
	Units       int      `json:"units"`
	Encoding    string   `json:"encoding"`
	Ciphertext  string   `json:"ciphertext"`
	Values      []string `json:"values,omitempty"`
}

// binaryEncoding maps an output format to the text encoding of binary
// fields. The json format keeps base64 for those fields.
func binaryEncoding(format string) string {
	if format == config.FormatHex {
		return config.FormatHex
	}
	return config.FormatBase64
}

func encodeBytes(data []byte, encoding string) string {
	switch encoding {
	case config.FormatHex:
		return hex.EncodeToString(data)
	default:
		return base64.StdEncoding.EncodeToString(data)
	}
}

// decodeString decodes s with the named encoding. Without one it tries
// base64 first, then hex.
func decodeString(s, encoding string) ([]byte, error) {
	s = strings.TrimSpace(s)
	switch encoding {
	case config.FormatHex:
		return hex.DecodeString(s)
	case config.FormatBase64:
		return base64.StdEncoding.DecodeString(s)
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	if data, err := hex.DecodeString(s); err == nil {
		return data, nil
	}
	return nil, fmt.Errorf("unable to decode string")
}

func newKeyFile(kp *mhkc.KeyPair, size mhkc.KeySize, encoding string) *keyFile {
	return &keyFile{
		KeyID:       uuid.NewString(),
		KeySize:     string(size),
		Bits:        kp.PublicKey.Len(),
		Encoding:    encoding,
		PublicKey:   encodeBytes(knapsack.SerializePublicKey(kp.PublicKey), encoding),
		PrivateKey:  encodeBytes(knapsack.SerializePrivateKey(kp.PrivateKey), encoding),
		Fingerprint: hex.EncodeToString(knapsack.Fingerprint(kp.PublicKey)),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}

// publicKey decodes the public key and checks it against the recorded
// fingerprint and length.
func (kf *keyFile) publicKey() (*mhkc.PublicKey, error) {
	data, err := decodeString(kf.PublicKey, kf.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}
	pk, err := knapsack.DeserializePublicKey(data)
	if err != nil {
		return nil, err
	}
	if kf.Bits != 0 && kf.Bits != pk.Len() {
		return nil, fmt.Errorf("%w: key file records %d bits, public key has %d", mhkc.ErrKeyLengthMismatch, kf.Bits, pk.Len())
	}
	if kf.Fingerprint != "" {
		want, err := hex.DecodeString(kf.Fingerprint)
		if err != nil || !utils.ConstantTimeEqual(want, knapsack.Fingerprint(pk)) {
			return nil, fmt.Errorf("%w: public key does not match fingerprint %s", mhkc.ErrInvalidKey, kf.Fingerprint)
		}
	}
	return pk, nil
}

// privateKey decodes the private key and checks that it belongs to the
// public key stored alongside it.
func (kf *keyFile) privateKey() (*mhkc.PrivateKey, *mhkc.PublicKey, error) {
	if kf.PrivateKey == "" {
		return nil, nil, fmt.Errorf("key %s holds no private key", kf.KeyID)
	}
	pk, err := kf.publicKey()
	if err != nil {
		return nil, nil, err
	}
	data, err := decodeString(kf.PrivateKey, kf.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	defer utils.Zeroize(data)

	sk, err := knapsack.DeserializePrivateKey(data)
	if err != nil {
		return nil, nil, err
	}
	if err := knapsack.CheckKeyPair(pk, sk); err != nil {
		return nil, nil, err
	}
	return sk, pk, nil
}

func newCiphertextFile(kf *keyFile, ct mhkc.Ciphertext, format string) *ciphertextFile {
	encoding := binaryEncoding(format)
	out := &ciphertextFile{
		KeyID:       kf.KeyID,
		Fingerprint: kf.Fingerprint,
		Bits:        kf.Bits,
		Units:       len(ct),
		Encoding:    encoding,
		Ciphertext:  encodeBytes(knapsack.SerializeCiphertext(ct), encoding),
	}
	if format == config.FormatJSON {
		out.Values = ct.Strings()
	}
	return out
}

// ciphertext returns the encrypted values, preferring the binary field.
func (cf *ciphertextFile) ciphertext() (mhkc.Ciphertext, error) {
	if cf.Ciphertext == "" {
		return parseValues(cf.Values)
	}
	data, err := decodeString(cf.Ciphertext, cf.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	ct, err := knapsack.DeserializeCiphertext(data)
	if err != nil {
		return nil, err
	}
	if cf.Units != 0 && cf.Units != len(ct) {
		return nil, fmt.Errorf("%w: file records %d units, found %d", mhkc.ErrInvalidCiphertext, cf.Units, len(ct))
	}
	return ct, nil
}

// readLimitedFile reads a file after checking its size.
func readLimitedFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxInputFileSize {
		return nil, fmt.Errorf("input file too large: %d > %d bytes", info.Size(), MaxInputFileSize)
	}
	return os.ReadFile(filename)
}

func loadKeyFile(filename string) (*keyFile, error) {
	data, err := readLimitedFile(filename)
	if err != nil {
		return nil, err
	}
	var kf keyFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("failed to parse key file %s: %w", filename, err)
	}
	if kf.PublicKey == "" {
		return nil, fmt.Errorf("key file %s has no public_key field", filename)
	}
	return &kf, nil
}

func loadCiphertextFile(filename string) (*ciphertextFile, error) {
	data, err := readLimitedFile(filename)
	if err != nil {
		return nil, err
	}
	var cf ciphertextFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse ciphertext file %s: %w", filename, err)
	}
	if cf.Ciphertext == "" && len(cf.Values) == 0 {
		return nil, fmt.Errorf("ciphertext file %s holds no ciphertext", filename)
	}
	return &cf, nil
}

// readText returns the text flag, the positional arguments or standard
// input, in that order of preference.
func readText(text string, args []string, in io.Reader) (string, error) {
	if text != "" {
		return text, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(io.LimitReader(in, utils.MaxMessageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) > utils.MaxMessageSize {
		return "", fmt.Errorf("input exceeds %d bytes: %w", utils.MaxMessageSize, utils.ErrExceedsLimit)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// writeOutput writes data to filename with owner-only permissions, or to w
// followed by a newline when filename is empty.
func writeOutput(w io.Writer, data []byte, filename string) error {
	if filename == "" {
		_, err := fmt.Fprintln(w, string(data))
		return err
	}

	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	// an existing file keeps its previous mode through OpenFile
	if err := os.Chmod(filename, 0600); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any, filename string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	return writeOutput(w, data, filename)
}
