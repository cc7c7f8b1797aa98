package idjwt

// DevBypassIdentity holds attributes used when issuing a synthetic identity in dev mode.
type DevBypassIdentity struct {
	Subject   string
	Issuer    string
	Audience  string
	Identity  string
	TenancyID *int64
}

// ToCallerIdentity converts the dev bypass configuration into a caller identity.
func (d DevBypassIdentity) ToCallerIdentity() CallerIdentity {
	return CallerIdentity{
		Identity: &Identity{
			Issuer:    d.Issuer,
			Audience:  d.Audience,
			Subject:   d.Subject,
			Identity:  d.Identity,
			TenancyID: d.TenancyID,
		},
		DevBypass: true,
	}
}

// DefaultDevBypassIdentity returns a baseline identity suitable for local development.
func DefaultDevBypassIdentity(audience string) DevBypassIdentity {
	aud := audience
	if aud == "" {
		aud = "https://dev.local"
	}
	return DevBypassIdentity{
		Subject:  "dev-bypass",
		Issuer:   "idjwt.dev",
		Audience: aud,
		Identity: "dev-bypass",
	}
}
