package idjwt

import "context"

type callerIdentityKey struct{}

// CallerIdentity represents the caller context stored during token verification.
type CallerIdentity struct {
	Identity  *Identity
	DevBypass bool
}

// BindCallerIdentity stores the verified identity inside the context for downstream consumers.
func BindCallerIdentity(ctx context.Context, caller CallerIdentity) context.Context {
	return context.WithValue(ctx, callerIdentityKey{}, caller)
}

// CallerIdentityFromContext retrieves an identity previously stored in the context.
func CallerIdentityFromContext(ctx context.Context) (CallerIdentity, bool) {
	if ctx == nil {
		return CallerIdentity{}, false
	}
	value := ctx.Value(callerIdentityKey{})
	if value == nil {
		return CallerIdentity{}, false
	}
	caller, ok := value.(CallerIdentity)
	return caller, ok
}
