package idjwt

import (
	"encoding/json"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// KeyPair holds the parsed RSA signing and verification keys. It is
// immutable after construction and safe for concurrent use.
type KeyPair struct {
	private jwk.Key
	public  jwk.Key
}

func newKeyPair(privatePEM, publicPEM, keyID string) (*KeyPair, error) {
	private, err := parseRSAKey(privatePEM, keyID)
	if err != nil {
		return nil, newError(ErrCodeInvalidKeyMaterial, fmt.Errorf("private key: %w", err))
	}
	if _, ok := private.(jwk.RSAPrivateKey); !ok {
		return nil, newError(ErrCodeInvalidKeyMaterial, fmt.Errorf("private key: public key material supplied where a private key is expected"))
	}
	public, err := parseRSAKey(publicPEM, keyID)
	if err != nil {
		return nil, newError(ErrCodeInvalidKeyMaterial, fmt.Errorf("public key: %w", err))
	}
	if _, ok := public.(jwk.RSAPrivateKey); ok {
		// Tolerate a private key in the public slot by reducing it.
		reduced, err := jwk.PublicKeyOf(public)
		if err != nil {
			return nil, newError(ErrCodeInvalidKeyMaterial, fmt.Errorf("public key: %w", err))
		}
		public = reduced
	}
	return &KeyPair{private: private, public: public}, nil
}

func parseRSAKey(pemText, keyID string) (jwk.Key, error) {
	key, err := jwk.ParseKey([]byte(pemText), jwk.WithPEM(true))
	if err != nil {
		return nil, err
	}
	if key.KeyType() != jwa.RSA {
		return nil, fmt.Errorf("unexpected key type %q, want RSA", key.KeyType())
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		return nil, err
	}
	if keyID != "" {
		if err := key.Set(jwk.KeyIDKey, keyID); err != nil {
			return nil, err
		}
	}
	return key, nil
}

// PublicJWKS serializes the verification key as a JWKS document, suitable
// for handing to whatever publishes keys to downstream verifiers.
func (kp *KeyPair) PublicJWKS() ([]byte, error) {
	set := jwk.NewSet()
	if err := set.AddKey(kp.public); err != nil {
		return nil, err
	}
	return json.Marshal(set)
}
