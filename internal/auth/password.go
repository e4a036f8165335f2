package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost, or an out-of-range cost, is configured.
const DefaultBcryptCost = 12

// PasswordHasher hashes and verifies the admin password with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a PasswordHasher with the given bcrypt cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the bcrypt cost used for new hashes.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash generates a bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify checks if the provided password matches the hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
