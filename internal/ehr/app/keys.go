package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"

	"github.com/curalinkhq/curalink/pkg/jwtx"
)

// initSigningKey returns the HS256 key material for the token signer and
// verifier.
//
// Key modes:
//   - configured: JWT_SECRET_KEY is used as-is. Tokens survive restarts as
//     long as the key does not change.
//   - ephemeral (dev only): a random key is generated on startup. Every
//     restart invalidates all outstanding tokens.
//
// Production refuses to start without a configured key; Config.Validate
// enforces that before this runs.
func initSigningKey(cfg Config, logger *slog.Logger) ([]byte, error) {
	if cfg.JWTSecretKey != "" {
		logger.Info("using configured JWT signing key")
		return []byte(cfg.JWTSecretKey), nil
	}

	if cfg.IsProduction() {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required when ENV=prod")
	}

	key := make([]byte, jwtx.MinHS256KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral signing key: %w", err)
	}

	logger.Warn("JWT_SECRET_KEY not set, generated an ephemeral signing key")
	logger.Warn("all existing tokens are now invalid and every restart will invalidate them again")
	return key, nil
}
