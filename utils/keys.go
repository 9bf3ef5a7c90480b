package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const joinKeyCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// JoinKeyLength is the fixed length of room join keys.
const JoinKeyLength = 8

// GenerateJoinKey returns a random 8-character uppercase alphanumeric key.
func GenerateJoinKey() (string, error) {
	key := make([]byte, JoinKeyLength)
	for i := range key {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(joinKeyCharset))))
		if err != nil {
			return "", err
		}
		key[i] = joinKeyCharset[n.Int64()]
	}
	return string(key), nil
}

// GenerateVerificationToken returns an opaque single-use email token.
func GenerateVerificationToken() string {
	return uuid.NewString()
}
