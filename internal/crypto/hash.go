package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the fixed bcrypt work factor. 10 keeps hashing around 100ms on
// current hardware, slow enough to resist offline guessing.
const hashCost = 10

// HashPassword hashes a password with bcrypt. The salt is generated per call,
// so hashing the same password twice yields different strings.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks whether a password matches the given bcrypt hash.
// A mismatch returns (false, nil); an error is returned only when the stored
// hash itself is malformed.
func VerifyPassword(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
