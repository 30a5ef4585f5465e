// Package auth implements the authentication core: password hashing, the
// signed session token codec and the cookie-based session manager.
package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used when none is configured.  Cost
// 12 keeps a single hash in the tens of milliseconds on current hardware,
// which is the point: verifying a guess has to be expensive.
const DefaultBcryptCost = 12

// HashPassword returns a bcrypt hash of plain using the given cost.  The
// salt is generated per call, so hashing the same password twice yields
// two different strings that both verify.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.  A
// malformed hash is just a failed verification, never an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
