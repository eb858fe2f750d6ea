// Package auth hashes passwords and issues and verifies access tokens.
package auth

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

// hashParams are encoded into every hash, so raising them later keeps
// existing passwords verifiable.
var hashParams = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// ErrMalformedHash is returned for a stored hash that cannot be decoded.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword returns an argon2id hash in PHC string form:
// $argon2id$v=19$m=65536,t=3,p=2$<salt>$<key>.
func HashPassword(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, hashParams)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword reports whether password matches encoded.
func VerifyPassword(password, encoded string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(password, encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return ok, nil
}
