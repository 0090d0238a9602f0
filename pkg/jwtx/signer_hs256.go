package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256KeySize is the minimum accepted symmetric key length in bytes.
// Anything shorter than the HMAC-SHA256 block makes brute force too cheap.
const MinHS256KeySize = 32

// HS256Signer implements the Signer interface using HMAC SHA-256 with a
// single process-wide symmetric key.
type HS256Signer struct {
	key []byte
	alg string
}

func newHS256Signer(key []byte) (*HS256Signer, error) {
	if len(key) < MinHS256KeySize {
		return nil, fmt.Errorf("jwtx: HS256 key must be at least %d bytes, got %d", MinHS256KeySize, len(key))
	}

	k := make([]byte, len(key))
	copy(k, key)

	return &HS256Signer{
		key: k,
		alg: jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if len(s.key) == 0 {
		return "", errors.New("jwtx: nil HS256 key")
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.key)
}
