// Package token generates the short identifiers used as proposal share links.
package token

import (
	"crypto/rand"
	"fmt"
)

// Length is the share-token length. 36^8 keys keeps collisions rare while the
// link stays short enough to read over the phone.
const Length = 8

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Generator produces share tokens. Injected so tests can force collisions.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator generates tokens from crypto/rand.
type RandomGenerator struct{}

// NewGenerator creates the default random generator
func NewGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// Generate returns a new lowercase alphanumeric token
func (g *RandomGenerator) Generate() (string, error) {
	bytes := make([]byte, Length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	for i, b := range bytes {
		bytes[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(bytes), nil
}
