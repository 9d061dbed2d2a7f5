package hash

import "errors"

var _ Hasher = (*StubHasher)(nil)

type StubHasher struct {
	HashFunc   func(plain string) (string, error)
	VerifyFunc func(plain, hashed string) (bool, error)
}

func (h *StubHasher) Hash(plain string) (string, error) {
	if h.HashFunc == nil {
		return "", errors.New("Hash is not implemented by stub")
	}
	return h.HashFunc(plain)
}

func (h *StubHasher) Verify(plain, hashed string) (bool, error) {
	if h.VerifyFunc == nil {
		return false, errors.New("Verify is not implemented by stub")
	}
	return h.VerifyFunc(plain, hashed)
}

// PlainHasher prefixes values instead of hashing them. It is meant for tests.
var PlainHasher = &StubHasher{
	HashFunc: func(plain string) (string, error) {
		return "hashed:" + plain, nil
	},
	VerifyFunc: func(plain, hashed string) (bool, error) {
		return hashed == "hashed:"+plain, nil
	},
}
