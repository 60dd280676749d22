package crypto

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// ExportPublicKey serializes an RSA public key as a JWK with the given
// usage ("enc" or "sig"). Import of the result yields a key functionally
// equivalent to the original for every engine operation.
func ExportPublicKey(pub *rsa.PublicKey, usage jwk.KeyUsageType) (json.RawMessage, error) {
	key, err := jwk.FromRaw(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: export public key: %v", ErrCryptoOperation, err)
	}
	if err := key.Set(jwk.KeyUsageKey, usage); err != nil {
		return nil, fmt.Errorf("%w: set key usage: %v", ErrCryptoOperation, err)
	}
	raw, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal jwk: %v", ErrCryptoOperation, err)
	}
	return raw, nil
}

// ImportEncryptionPublicKey parses a directory-published encryption JWK.
func ImportEncryptionPublicKey(raw json.RawMessage) (*rsa.PublicKey, error) {
	return importRSAPublicKey(raw)
}

// ImportSigningPublicKey parses a directory-published signing JWK.
func ImportSigningPublicKey(raw json.RawMessage) (*rsa.PublicKey, error) {
	return importRSAPublicKey(raw)
}

func importRSAPublicKey(raw json.RawMessage) (*rsa.PublicKey, error) {
	key, err := jwk.ParseKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse jwk: %v", ErrCryptoOperation, err)
	}
	if key.KeyType() != jwa.RSA {
		return nil, fmt.Errorf("%w: unexpected key type %q", ErrCryptoOperation, key.KeyType())
	}
	var pub rsa.PublicKey
	if err := key.Raw(&pub); err != nil {
		return nil, fmt.Errorf("%w: materialize rsa public key: %v", ErrCryptoOperation, err)
	}
	return &pub, nil
}
