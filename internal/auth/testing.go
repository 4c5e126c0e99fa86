package auth

import "golang.org/x/crypto/bcrypt"

// SetTestCost lowers the bcrypt cost on a store to keep tests fast.
// This should only be used in tests.
func SetTestCost(s *UserStore) {
	s.cost = bcrypt.MinCost
}
