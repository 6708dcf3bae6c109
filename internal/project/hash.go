package project

import "crypto/sha256"

// Digest is a SHA-256 sum, the same shape as source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by deps. Callers keep deps ordered.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:]) //nolint:errcheck
	for _, d := range deps {
		_, _ = h.Write(d[:]) //nolint:errcheck
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashString digests s.
func HashString(s string) Digest {
	return sha256.Sum256([]byte(s))
}
