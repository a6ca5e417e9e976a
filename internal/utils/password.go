package utils

import "golang.org/x/crypto/bcrypt"

// minBcryptCost is the floor applied to the configured cost so weak hashes
// cannot be produced by a misconfigured environment.
const minBcryptCost = 10

// HashPassword returns a bcrypt hash of plain.  The salt is generated per
// call by bcrypt itself and embedded in the output.  Costs below 10 are
// raised to 10.
func HashPassword(plain string, cost int) (string, error) {
	if cost < minBcryptCost {
		cost = minBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
