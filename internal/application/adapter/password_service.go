package adapter

// PasswordHasher hashes and checks passwords. Compare returns nil only on a match.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
