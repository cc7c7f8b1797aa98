package idjwt

import (
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"
)

// Sign issues a compact RS256-signed token carrying the identity claims.
// A zero IssuedAt is replaced with the current time and a zero ExpiresAt
// with IssuedAt plus the configured TokenTTL. Timestamps are truncated to
// whole seconds, which is the precision the token format retains.
func (s *Security) Sign(id Identity) (string, error) {
	issuedAt := id.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}
	issuedAt = issuedAt.Truncate(time.Second)

	expiresAt := id.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = issuedAt.Add(s.cfg.TokenTTL)
	}
	expiresAt = expiresAt.Truncate(time.Second)

	tokenID := id.TokenID
	if tokenID == "" {
		tokenID = uuid.NewString()
	}

	builder := jwt.NewBuilder().
		Issuer(id.Issuer).
		Subject(id.Subject).
		IssuedAt(issuedAt).
		Expiration(expiresAt).
		JwtID(tokenID).
		Claim(identityClaim, id.Identity)
	if id.Audience != "" {
		builder = builder.Audience([]string{id.Audience})
	}
	if id.TenancyID != nil {
		builder = builder.Claim(tenancyIDClaim, *id.TenancyID)
	}

	token, err := builder.Build()
	if err != nil {
		s.log.Error("build identity token", zap.Error(err), zap.String("subject", id.Subject))
		return "", newError(ErrCodeTokenCreationFailed, err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, s.keys.private))
	if err != nil {
		s.log.Error("sign identity token", zap.Error(err), zap.String("subject", id.Subject))
		return "", newError(ErrCodeTokenCreationFailed, err)
	}
	return string(signed), nil
}
