// Package password wraps salted adaptive password hashing.
package password

import "golang.org/x/crypto/bcrypt"

// Hash generates a salted bcrypt hash for the given password.
// The returned string embeds the algorithm cost and salt.
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// Verify reports whether password matches the stored hash.
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
