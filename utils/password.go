package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the salted bcrypt hash of password.
// bcrypt rejects inputs longer than 72 bytes with bcrypt.ErrPasswordTooLong.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
