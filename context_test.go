package idjwt

import (
	"context"
	"testing"
)

func TestCallerIdentityContextRoundTrip(t *testing.T) {
	caller := CallerIdentity{Identity: &Identity{Subject: "user-1", Identity: "user-1"}}

	ctx := BindCallerIdentity(context.Background(), caller)
	got, ok := CallerIdentityFromContext(ctx)
	if !ok {
		t.Fatal("expected caller identity in context")
	}
	if got.Identity.Subject != "user-1" {
		t.Fatalf("unexpected subject: %s", got.Identity.Subject)
	}
	if got.DevBypass {
		t.Fatal("unexpected dev bypass flag")
	}
}

func TestCallerIdentityFromContextMissing(t *testing.T) {
	if _, ok := CallerIdentityFromContext(context.Background()); ok {
		t.Fatal("expected no caller identity")
	}
	if _, ok := CallerIdentityFromContext(nil); ok { //nolint:staticcheck
		t.Fatal("expected no caller identity for nil context")
	}
}

func TestDevBypassIdentity(t *testing.T) {
	dev := DefaultDevBypassIdentity("")
	if dev.Audience != "https://dev.local" {
		t.Fatalf("unexpected audience: %s", dev.Audience)
	}

	caller := dev.ToCallerIdentity()
	if !caller.DevBypass {
		t.Fatal("expected dev bypass flag")
	}
	if caller.Identity.Subject != "dev-bypass" {
		t.Fatalf("unexpected subject: %s", caller.Identity.Subject)
	}
	if caller.Identity.Issuer != "idjwt.dev" {
		t.Fatalf("unexpected issuer: %s", caller.Identity.Issuer)
	}
}
