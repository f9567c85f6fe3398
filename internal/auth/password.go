package auth

import "golang.org/x/crypto/bcrypt"

// PasswordHasher abstracts password hashing so tests can swap in a
// cheap implementation.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// BcryptPasswordHasher hashes with bcrypt at a fixed cost.
type BcryptPasswordHasher struct {
	cost int
}

// NewBcryptPasswordHasher uses bcrypt's default cost.
func NewBcryptPasswordHasher() *BcryptPasswordHasher {
	return NewBcryptPasswordHasherWithCost(bcrypt.DefaultCost)
}

// NewBcryptPasswordHasherWithCost takes the cost from configuration;
// the BCRYPT_COST env var feeds it in production.
func NewBcryptPasswordHasherWithCost(cost int) *BcryptPasswordHasher {
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Compare returns nil when plain matches hash.
func (h *BcryptPasswordHasher) Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
