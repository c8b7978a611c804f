package utils

import "golang.org/x/crypto/bcrypt"

// HashCode returns the bcrypt hash of a verification code using the given cost.
func HashCode(code string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CodeMatches safely compares a bcrypt hash and a submitted code.
func CodeMatches(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
