package orders

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

var otpMax = big.NewInt(1000000)

// GenerateOTP produces a 6-digit numeric code from crypto/rand. Every order
// gets one at creation, COD included.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("generating otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// VerifyOTP compares the submitted code in constant time.
func VerifyOTP(expected, submitted string) bool {
	if len(expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}
