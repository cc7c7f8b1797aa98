package idjwt

import "time"

// Claim names for the non-registered fields carried by identity tokens.
const (
	identityClaim  = "identity"
	tenancyIDClaim = "tenancy_id"
)

// Identity is the claim bundle carried by an identity token.
type Identity struct {
	Issuer    string
	Audience  string
	Subject   string
	Identity  string
	TenancyID *int64
	IssuedAt  time.Time
	ExpiresAt time.Time

	// TokenID is the jti claim. The signer fills it in when empty.
	TokenID string
}

// Tenancy returns a pointer suitable for Identity.TenancyID.
func Tenancy(id int64) *int64 {
	return &id
}
