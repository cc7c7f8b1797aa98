package idjwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.uber.org/zap"
)

// Verify checks the token signature against the public key, checks expiry,
// and decodes the claims back into an Identity. Expiry is reported as
// ErrCodeTokenExpired; every other structural, signature, or decode failure
// normalizes to ErrCodeInvalidToken. Verification is a single-shot check,
// failures are never transient.
func (s *Security) Verify(token string) (*Identity, error) {
	if token == "" {
		return nil, newError(ErrCodeMissingArgument, errors.New("token is required"))
	}

	// Signature verification only; expiry is classified separately below.
	parsed, err := jwt.Parse(
		[]byte(token),
		jwt.WithKey(jwa.RS256, s.keys.public),
		jwt.WithValidate(false),
	)
	if err != nil {
		s.log.Debug("parse identity token", zap.Error(err))
		return nil, newError(ErrCodeInvalidToken, err)
	}

	// Expiry is checked against the clock directly rather than inferred
	// from library error text.
	now := s.now()
	if exp := parsed.Expiration(); !exp.IsZero() && now.After(exp.Add(s.cfg.ClockSkew)) {
		return nil, newError(ErrCodeTokenExpired, fmt.Errorf("token expired at %s", exp.UTC().Format(time.RFC3339)))
	}

	validateOpts := []jwt.ValidateOption{
		jwt.WithAcceptableSkew(s.cfg.ClockSkew),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	}
	if err := jwt.Validate(parsed, validateOpts...); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired()) {
			return nil, newError(ErrCodeTokenExpired, err)
		}
		s.log.Debug("validate identity token", zap.Error(err))
		return nil, newError(ErrCodeInvalidToken, err)
	}

	return identityFromToken(parsed), nil
}

func identityFromToken(token jwt.Token) *Identity {
	id := &Identity{
		Issuer:    token.Issuer(),
		Subject:   token.Subject(),
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
		TokenID:   token.JwtID(),
	}
	if aud := token.Audience(); len(aud) > 0 {
		id.Audience = aud[0]
	}
	if v, ok := token.Get(identityClaim); ok {
		if s, ok := v.(string); ok {
			id.Identity = s
		}
	}
	if v, ok := token.Get(tenancyIDClaim); ok {
		if n, ok := asInt64(v); ok {
			id.TenancyID = &n
		}
	}
	return id
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
