package utils

import (
	"io"

	"golang.org/x/crypto/sha3"
)

// DomainSeedStream separates seeded key-generation streams from other SHAKE uses.
const DomainSeedStream = "mhkc-seed-stream-v1"

// NewShakeReader returns an endless deterministic byte stream derived from seed.
// Identical seeds yield identical streams, which makes key generation
// reproducible. The reader must not be shared between goroutines.
func NewShakeReader(seed []byte) io.Reader {
	h := sha3.NewShake256()
	domain := []byte(DomainSeedStream)
	h.Write([]byte{byte(len(domain))})
	h.Write(domain)
	h.Write(seed)
	return h
}

// HashWithDomain computes a domain-separated SHA3-256 hash.
// It prefixes the data with the length of the domain string and the domain string itself.
// Panics if domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	domainBytes := []byte(domain)
	if len(domainBytes) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	h := sha3.New256()
	h.Write([]byte{byte(len(domainBytes))})
	h.Write(domainBytes)
	h.Write(data)
	return h.Sum(nil)
}
