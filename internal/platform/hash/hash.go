// Package hash provides one-way hashing of credentials.
package hash

type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}
