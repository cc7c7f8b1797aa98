// Package idjwt issues and verifies RS256-signed identity tokens carrying
// an issuer, a single audience, a subject, an application identity handle,
// and an optional tenancy id.
package idjwt

import (
	"time"

	"go.uber.org/zap"
)

// Security signs and verifies identity tokens with a fixed RSA key pair.
// The key pair is parsed once at construction and never mutated, so a
// single instance is safe for concurrent use.
type Security struct {
	cfg  Config
	keys *KeyPair
	log  *zap.Logger
	now  func() time.Time
}

// New parses the configured PEM key material and builds a Security.
func New(cfg Config) (*Security, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.normalize()

	keys, err := newKeyPair(cfg.PrivateKeyPEM, cfg.PublicKeyPEM, cfg.KeyID)
	if err != nil {
		cfg.Logger.Error("parse key material", zap.Error(err))
		return nil, err
	}

	return &Security{
		cfg:  cfg,
		keys: keys,
		log:  cfg.Logger,
		now:  time.Now,
	}, nil
}

// Keys returns the parsed key pair.
func (s *Security) Keys() *KeyPair {
	return s.keys
}
