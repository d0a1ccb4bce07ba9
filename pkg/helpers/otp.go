package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// KeyEmailVerification is the Redis key holding the pending email verification for a user
func KeyEmailVerification(uid string) string {
	return "email:verify:" + uid
}

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded string
func GenOTPCode() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	code := binary.BigEndian.Uint32(b) % 1000000
	return fmt.Sprintf("%06d", code), nil
}

// HashOTPCode returns the hex SHA-256 of a code so plain codes never sit in Redis.
func HashOTPCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
