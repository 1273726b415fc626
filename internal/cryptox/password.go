// Package cryptox implements password credential hashing for account storage.
//
// Passwords are never stored or compared in cleartext. HashPassword derives an
// argon2id digest with a per-password random salt and encodes digest, salt and
// parameters into a single PHC-style string. VerifyPassword re-derives the
// digest from the candidate using the encoded parameters and compares in
// constant time.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dberezin/securenotes/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

var ErrMalformedDigest = errors.New("malformed password digest")

// HashPassword derives an argon2id digest of password with a fresh random salt
// and returns it in the form:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<b64(salt)>$<b64(digest)>
func HashPassword(password []byte) (string, error) {
	salt, err := common.GenerateRandByteArray(saltLen)
	if err != nil {
		return "", err
	}

	digest := argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// VerifyPassword reports whether candidate matches the stored encoded digest.
// The comparison of the derived keys is constant-time.
func VerifyPassword(encoded string, candidate []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, ErrMalformedDigest
	}
	if version != argon2.Version {
		return false, ErrMalformedDigest
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, ErrMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedDigest
	}
	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrMalformedDigest
	}

	derived := argon2.IDKey(candidate, salt, iterations, memory, parallelism, uint32(len(digest)))
	return subtle.ConstantTimeCompare(digest, derived) == 1, nil
}
