package idjwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"strings"
	"testing"
)

func TestNew_MissingKeyMaterial(t *testing.T) {
	privPEM, pubPEM := testKeyPEMs(t)

	cases := []struct {
		name    string
		private string
		public  string
	}{
		{name: "missing private", private: "", public: pubPEM},
		{name: "missing public", private: privPEM, public: ""},
		{name: "missing both", private: "", public: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Config{PrivateKeyPEM: tc.private, PublicKeyPEM: tc.public})
			if err == nil {
				t.Fatal("expected error")
			}
			var idErr *Error
			if !errors.As(err, &idErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if idErr.Code != ErrCodeMissingArgument {
				t.Fatalf("expected ErrCodeMissingArgument, got %s", idErr.Code)
			}
		})
	}
}

func TestNew_InvalidKeyMaterial(t *testing.T) {
	privPEM, pubPEM := testKeyPEMs(t)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate ec key: %v", err)
	}
	ecDER, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
	if err != nil {
		t.Fatalf("marshal ec key: %v", err)
	}
	ecPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: ecDER}))

	cases := []struct {
		name    string
		private string
		public  string
	}{
		{name: "private not pem", private: "definitely not a key", public: pubPEM},
		{name: "public not pem", private: privPEM, public: "definitely not a key"},
		{name: "private truncated", private: privPEM[:len(privPEM)/2], public: pubPEM},
		{name: "public truncated", private: privPEM, public: pubPEM[:len(pubPEM)/2]},
		{name: "public wrong algorithm", private: privPEM, public: ecPEM},
		{name: "public key in private slot", private: pubPEM, public: pubPEM},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Config{PrivateKeyPEM: tc.private, PublicKeyPEM: tc.public})
			if err == nil {
				t.Fatal("expected error")
			}
			var idErr *Error
			if !errors.As(err, &idErr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if idErr.Code != ErrCodeInvalidKeyMaterial {
				t.Fatalf("expected ErrCodeInvalidKeyMaterial, got %s", idErr.Code)
			}
		})
	}
}

func TestNew_PrivateKeyInPublicSlot(t *testing.T) {
	privPEM, _ := testKeyPEMs(t)

	sec, err := New(Config{PrivateKeyPEM: privPEM, PublicKeyPEM: privPEM})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	token, err := sec.Sign(Identity{Issuer: "uniauth", Subject: "user-1", Identity: "user-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := sec.Verify(token); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestKeyPair_PublicJWKS(t *testing.T) {
	privPEM, pubPEM := testKeyPEMs(t)

	sec, err := New(Config{PrivateKeyPEM: privPEM, PublicKeyPEM: pubPEM, KeyID: "uniauth-2026"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	payload, err := sec.Keys().PublicJWKS()
	if err != nil {
		t.Fatalf("PublicJWKS: %v", err)
	}

	var doc struct {
		Keys []map[string]any `json:"keys"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("unmarshal jwks: %v", err)
	}
	if len(doc.Keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(doc.Keys))
	}
	key := doc.Keys[0]
	if key["kty"] != "RSA" {
		t.Fatalf("unexpected kty: %v", key["kty"])
	}
	if key["alg"] != "RS256" {
		t.Fatalf("unexpected alg: %v", key["alg"])
	}
	if key["kid"] != "uniauth-2026" {
		t.Fatalf("unexpected kid: %v", key["kid"])
	}
	if _, ok := key["d"]; ok {
		t.Fatal("JWKS document leaks private key material")
	}
}

// testKeyPEMs generates a fresh RSA key pair encoded as PEM.
func testKeyPEMs(t *testing.T) (string, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal private key: %v", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return string(privPEM), string(pubPEM)
}

// testSecurity builds a Security from a fresh key pair.
func testSecurity(t *testing.T, cfg Config) *Security {
	t.Helper()
	privPEM, pubPEM := testKeyPEMs(t)
	cfg.PrivateKeyPEM = privPEM
	cfg.PublicKeyPEM = pubPEM
	sec, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sec
}

// tamperSignature flips one character inside the signature segment.
func tamperSignature(t *testing.T, token string) string {
	t.Helper()
	i := strings.LastIndex(token, ".")
	if i < 0 {
		t.Fatalf("token has no signature segment: %s", token)
	}
	sig := []byte(token[i+1:])
	if sig[10] == 'A' {
		sig[10] = 'B'
	} else {
		sig[10] = 'A'
	}
	return token[:i+1] + string(sig)
}
