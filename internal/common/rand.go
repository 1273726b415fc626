package common

import "crypto/rand"

// GenerateRandByteArray returns size cryptographically random bytes, reporting
// a failure of the system random source instead of falling back to anything
// weaker.
func GenerateRandByteArray(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
