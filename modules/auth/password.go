package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the default cost for bcrypt hashing.
	DefaultBcryptCost = 10
)

// dummyPassword backs the hash compared against when a username is unknown.
const dummyPassword = "task-tracker-unknown-user"

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     string
}

// NewPasswordHasher creates a PasswordHasher. A cost outside bcrypt's range falls back to DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{
		cost: cost,
	}
}

// Hash generates a salted bcrypt hash of the given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (h *PasswordHasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// dummyHash returns a hash at the hasher's cost, generated once. Comparing
// against it costs the same as checking a real user's password.
func (h *PasswordHasher) dummyHash() string {
	h.dummyOnce.Do(func() {
		bytes, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), h.cost)
		if err == nil {
			h.dummy = string(bytes)
		}
	})
	return h.dummy
}
