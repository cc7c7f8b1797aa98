package idjwt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// TokenFactory allows callers to override how identity tokens are minted.
type TokenFactory func(context.Context, string, ProviderParams) (oauth2.TokenSource, error)

// ProviderConfig defines how tokens should be issued by default.
type ProviderConfig struct {
	Issuer       string
	Subject      string
	Identity     string
	TenancyID    *int64
	TTL          time.Duration
	TokenFactory TokenFactory
}

// Provider mints identity tokens for service-to-service calls. It caches a
// self-refreshing token source per (audience, subject, identity, tenancy)
// combination, so callers get a cached token until it nears expiry and a
// freshly signed one afterwards.
type Provider struct {
	mu       sync.RWMutex
	factory  TokenFactory
	entries  map[providerKey]*tokenSourceEntry
	defaults ProviderParams
}

type providerKey struct {
	Audience  string
	Subject   string
	Identity  string
	TenancyID string
}

type tokenSourceEntry struct {
	source oauth2.TokenSource
}

// ProviderParams are the per-token claim parameters.
type ProviderParams struct {
	Subject   string
	Identity  string
	TenancyID *int64
}

// TokenOption customizes the behaviour for a single Token call.
type TokenOption func(*ProviderParams)

// WithSubject overrides the subject claim of the minted token.
func WithSubject(subject string) TokenOption {
	return func(p *ProviderParams) {
		p.Subject = subject
	}
}

// WithIdentity overrides the identity claim of the minted token.
func WithIdentity(identity string) TokenOption {
	return func(p *ProviderParams) {
		p.Identity = identity
	}
}

// WithTenancy scopes the minted token to the given tenancy.
func WithTenancy(id int64) TokenOption {
	return func(p *ProviderParams) {
		p.TenancyID = &id
	}
}

// NewProvider constructs a Provider minting tokens from sec with the
// supplied defaults. cfg.TokenFactory replaces the local signer entirely
// when set; sec may be nil in that case.
func NewProvider(sec *Security, cfg ProviderConfig) *Provider {
	factory := cfg.TokenFactory
	if factory == nil {
		factory = localFactory(sec, cfg.Issuer, cfg.TTL)
	}
	return &Provider{
		factory: factory,
		entries: make(map[providerKey]*tokenSourceEntry),
		defaults: ProviderParams{
			Subject:   cfg.Subject,
			Identity:  cfg.Identity,
			TenancyID: cfg.TenancyID,
		},
	}
}

// Token returns a signed identity token for the given audience.
func (p *Provider) Token(ctx context.Context, audience string, opts ...TokenOption) (string, error) {
	if audience == "" {
		return "", errors.New("audience is required")
	}

	params := p.defaults
	for _, opt := range opts {
		opt(&params)
	}

	key := providerKey{
		Audience: audience,
		Subject:  params.Subject,
		Identity: params.Identity,
	}
	if params.TenancyID != nil {
		key.TenancyID = strconv.FormatInt(*params.TenancyID, 10)
	}

	entry, err := p.getOrCreate(ctx, key, params)
	if err != nil {
		return "", err
	}

	tok, err := entry.source.Token()
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", errors.New("empty token returned")
	}
	return tok.AccessToken, nil
}

func (p *Provider) getOrCreate(ctx context.Context, key providerKey, params ProviderParams) (*tokenSourceEntry, error) {
	p.mu.RLock()
	entry, ok := p.entries[key]
	p.mu.RUnlock()
	if ok {
		return entry, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok = p.entries[key]; ok {
		return entry, nil
	}

	ts, err := p.factory(ctx, key.Audience, params)
	if err != nil {
		return nil, err
	}
	entry = &tokenSourceEntry{source: oauth2.ReuseTokenSource(nil, ts)}
	p.entries[key] = entry
	return entry, nil
}

func localFactory(sec *Security, issuer string, ttl time.Duration) TokenFactory {
	return func(_ context.Context, audience string, params ProviderParams) (oauth2.TokenSource, error) {
		if sec == nil {
			return nil, errors.New("no Security configured and no TokenFactory supplied")
		}
		return &signerSource{
			sec:      sec,
			issuer:   issuer,
			audience: audience,
			params:   params,
			ttl:      ttl,
		}, nil
	}
}

// signerSource mints a fresh token on every call; oauth2.ReuseTokenSource
// above it handles caching until expiry.
type signerSource struct {
	sec      *Security
	issuer   string
	audience string
	params   ProviderParams
	ttl      time.Duration
}

func (ss *signerSource) Token() (*oauth2.Token, error) {
	ttl := ss.ttl
	if ttl <= 0 {
		ttl = ss.sec.cfg.TokenTTL
	}
	issuedAt := ss.sec.now()
	expiresAt := issuedAt.Add(ttl)

	signed, err := ss.sec.Sign(Identity{
		Issuer:    ss.issuer,
		Audience:  ss.audience,
		Subject:   ss.params.Subject,
		Identity:  ss.params.Identity,
		TenancyID: ss.params.TenancyID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		Expiry:      expiresAt,
	}, nil
}
