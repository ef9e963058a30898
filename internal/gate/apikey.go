package gate

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// API keys have the form "<consumer-id>.<secret>". Only the bcrypt hash of
// the secret is stored; the full key is shown once at creation.

// NewAPIKey generates a fresh API key and the hash to store for it
func NewAPIKey(consumerID uuid.UUID) (key, hash string, err error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate secret: %w", err)
	}
	secret := hex.EncodeToString(raw)

	hash, err = HashSecret(secret)
	if err != nil {
		return "", "", err
	}
	return consumerID.String() + "." + secret, hash, nil
}

// ParseAPIKey splits an API key into its consumer ID and secret
func ParseAPIKey(key string) (uuid.UUID, string, error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 || parts[1] == "" {
		return uuid.Nil, "", fmt.Errorf("malformed API key")
	}

	consumerID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("malformed API key")
	}
	return consumerID, parts[1], nil
}

// HashSecret hashes an API-key secret for storage
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(bytes), nil
}

// CheckSecret checks an API-key secret against a stored hash
func CheckSecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
