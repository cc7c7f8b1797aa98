package idjwt

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	defaultClockSkew = 30 * time.Second
	defaultTokenTTL  = time.Hour
)

// Config contains the key material and issuing defaults for a Security.
type Config struct {
	// PrivateKeyPEM and PublicKeyPEM hold the PEM-encoded RSA key pair.
	// Both are required.
	PrivateKeyPEM string
	PublicKeyPEM  string

	// KeyID, when set, is stamped on both keys and ends up in the kid
	// header of issued tokens and in the exported JWKS document.
	KeyID string

	// ClockSkew is the leeway applied when checking expiry.
	ClockSkew time.Duration

	// TokenTTL is the lifetime applied when an Identity is signed without
	// an explicit ExpiresAt.
	TokenTTL time.Duration

	// Logger receives failure diagnostics. Defaults to a nop logger.
	Logger *zap.Logger
}

// normalize sets default values for optional fields.
func (c *Config) normalize() {
	if c.ClockSkew <= 0 {
		c.ClockSkew = defaultClockSkew
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}

// validate ensures the mandatory key material is present.
func (c Config) validate() error {
	switch {
	case c.PrivateKeyPEM == "":
		return newError(ErrCodeMissingArgument, errors.New("private key PEM is required"))
	case c.PublicKeyPEM == "":
		return newError(ErrCodeMissingArgument, errors.New("public key PEM is required"))
	}
	return nil
}
