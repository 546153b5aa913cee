// Package classical implements the Caesar and Vigenère letter-shift ciphers.
//
// Both ciphers upper-case their input and shift only the ASCII letters A-Z,
// wrapping around the 26-letter alphabet. Every other character, including
// non-ASCII letters, is copied through unchanged.
package classical

import (
	"fmt"
	"strings"

	mhkc "github.com/BackendStack21/mhkc-go"
)

const alphabetLength = 26

// EncryptCaesar shifts every letter of plaintext forward by offset.
// Any integer offset is accepted; it is reduced modulo 26.
func EncryptCaesar(plaintext string, offset int) string {
	return caesar(plaintext, offset)
}

// DecryptCaesar shifts every letter of ciphertext back by offset.
func DecryptCaesar(ciphertext string, offset int) string {
	return caesar(ciphertext, -(offset % alphabetLength))
}

func caesar(text string, offset int) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToUpper(text) {
		b.WriteRune(shiftLetter(r, offset))
	}
	return b.String()
}

// EncryptVigenere shifts each character of plaintext by the keyword letter
// at the same position, cycling the keyword. Every character of the text
// consumes a keyword position, letters or not.
func EncryptVigenere(plaintext, keyword string) (string, error) {
	return vigenere(plaintext, keyword, 1)
}

// DecryptVigenere reverses EncryptVigenere.
func DecryptVigenere(ciphertext, keyword string) (string, error) {
	return vigenere(ciphertext, keyword, -1)
}

func vigenere(text, keyword string, direction int) (string, error) {
	offsets, err := keywordOffsets(keyword)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for _, r := range strings.ToUpper(text) {
		b.WriteRune(shiftLetter(r, direction*offsets[i%len(offsets)]))
		i++
	}
	return b.String(), nil
}

// keywordOffsets maps each keyword letter to its distance from 'A'.
func keywordOffsets(keyword string) ([]int, error) {
	if keyword == "" {
		return nil, mhkc.ErrInvalidKeyword
	}
	upper := strings.ToUpper(keyword)
	offsets := make([]int, 0, len(upper))
	for _, r := range upper {
		if !isLetter(r) {
			return nil, fmt.Errorf("%w: %q", mhkc.ErrInvalidKeyword, keyword)
		}
		offsets = append(offsets, int(r-'A'))
	}
	return offsets, nil
}

// shiftLetter moves an upper-case ASCII letter offset places around the
// alphabet. Anything else is returned as is.
func shiftLetter(r rune, offset int) rune {
	if !isLetter(r) {
		return r
	}
	n := (int(r-'A') + offset%alphabetLength) % alphabetLength
	if n < 0 {
		n += alphabetLength
	}
	return 'A' + rune(n)
}

func isLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
