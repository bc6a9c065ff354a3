package security

// PINHasher hashes and checks transaction PINs
type PINHasher interface {
	Hash(pin string) (string, error)
	Compare(hash, pin string) bool
}
