package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Hashing needs a pepper; point it at a throwaway file.
	pepperPath := filepath.Join(os.TempDir(), "cryptox-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashSecret_PHCFormat(t *testing.T) {
	hash, err := HashSecret("some-client-secret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6, "PHC hash should have 6 parts")
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Equal(t, "m=19456,t=2,p=1", parts[3])
	require.NotEmpty(t, parts[4], "salt should not be empty")
	require.NotEmpty(t, parts[5], "hash should not be empty")
}

func TestHashSecret_UniqueSalts(t *testing.T) {
	secret := "same-secret"

	hash1, err := HashSecret(secret)
	require.NoError(t, err)
	hash2, err := HashSecret(secret)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

	require.NoError(t, VerifySecret(secret, hash1))
	require.NoError(t, VerifySecret(secret, hash2))
}

func TestHashSecret_NeverEqualsPlaintext(t *testing.T) {
	secret := MustGenerateToken(TokenSize384)

	hash, err := HashSecret(secret)
	require.NoError(t, err)
	require.NotEqual(t, secret, hash)
}

func TestVerifySecret_Roundtrip(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"generated secret", MustGenerateToken(TokenSize384)},
		{"short secret", "s"},
		{"long secret", strings.Repeat("a", 200)},
		{"empty secret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashSecret(tt.secret)
			require.NoError(t, err)
			require.NoError(t, VerifySecret(tt.secret, hash))
		})
	}
}

func TestVerifySecret_WrongSecret(t *testing.T) {
	hash, err := HashSecret("correct-secret")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-secret",
		"Correct-Secret",
		"correct-secret ",
		"",
		"correct-secre",
		strings.Repeat("x", 10000),
	} {
		err := VerifySecret(wrong, hash)
		require.ErrorIs(t, err, ErrSecretMismatch, "input %q", wrong)
	}
}

func TestVerifySecret_InvalidHashFormat(t *testing.T) {
	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySecret("whatever", tt.invalidHash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrSecretMismatch)
		})
	}
}

func TestVerifySecret_ParametersFromHash(t *testing.T) {
	// Stored hashes keep working if the package defaults ever change,
	// because verification reads parameters out of the hash itself.
	hash, err := HashSecret("test-secret")
	require.NoError(t, err)

	require.Contains(t, hash, "m=19456")
	require.Contains(t, hash, "t=2")
	require.Contains(t, hash, "p=1")

	require.NoError(t, VerifySecret("test-secret", hash))
}
