package utils

import (
	"crypto/rand"

	"golang.org/x/crypto/bcrypt"
)

// GenerateOTP returns a random numeric code of the given length.
func GenerateOTP(length int) (string, error) {
	const digits = "0123456789"
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	otp := make([]byte, length)
	for i, b := range bytes {
		otp[i] = digits[int(b)%len(digits)]
	}
	return string(otp), nil
}

// HashOTP hashes a code for storage; the plaintext only ever leaves the
// server inside the email we send.
func HashOTP(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareOTP reports whether the code matches the stored hash.
func CompareOTP(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
