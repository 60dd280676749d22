package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
)

const (
	// ModulusBits is the RSA modulus size for both device key pairs.
	// 2048 is the floor; the wrap payload is a 32-byte AES key, so the
	// OAEP capacity is never a constraint.
	ModulusBits = 2048

	// SymmetricKeyBytes is the AES-256 key size used for message bodies.
	SymmetricKeyBytes = 32

	// IVBytes is the AES-GCM nonce size. A fresh random IV is drawn per
	// encryption; reuse with the same key breaks GCM confidentiality.
	IVBytes = 12
)

// GenerateEncryptionKeyPair returns a fresh RSA key pair used exclusively
// for OAEP wrapping of per-message symmetric keys.
func GenerateEncryptionKeyPair() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, ModulusBits)
	if err != nil {
		return nil, fmt.Errorf("%w: generate encryption key pair: %v", ErrCryptoOperation, err)
	}
	return key, nil
}

// GenerateSigningKeyPair returns a fresh RSA key pair used exclusively for
// PSS signatures over envelope digests.
func GenerateSigningKeyPair() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, ModulusBits)
	if err != nil {
		return nil, fmt.Errorf("%w: generate signing key pair: %v", ErrCryptoOperation, err)
	}
	return key, nil
}

// generateSymmetricKey draws a fresh AES-256 key. One key encrypts exactly
// one message body and is wiped after wrapping.
func generateSymmetricKey() ([]byte, error) {
	key := make([]byte, SymmetricKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: generate symmetric key: %v", ErrCryptoOperation, err)
	}
	return key, nil
}
