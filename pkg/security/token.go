package security

import (
	"crypto/rand"
	"encoding/hex"
)

const verificationTokenSize = 32

// NewVerificationToken returns the random opaque token that gets
// embedded in verification mail links and stored on the user row.
func NewVerificationToken() (string, error) {
	b := make([]byte, verificationTokenSize)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
