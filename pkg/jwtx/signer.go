package jwtx

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// NewSignerHS256 creates an HS256 signer from a raw symmetric key. The key
// must be provided explicitly; there is no package-level key state.
func NewSignerHS256(key []byte) (Signer, error) {
	return newHS256Signer(key)
}
