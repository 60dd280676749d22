package crypto

import (
	stdcrypto "crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"

	domaintypes "sealpost/internal/domain/types"
	"sealpost/internal/util/memzero"
)

var (
	// ErrCryptoOperation marks a primitive-level failure: malformed key,
	// unsupported parameters, entropy exhaustion. Fatal to the current
	// operation and never worth an automatic retry.
	ErrCryptoOperation = errors.New("crypto operation failed")

	// ErrDecryption marks an OAEP unwrap or GCM tag failure. It signals
	// tampering, corruption, or a wrong recipient key, and must never be
	// treated as an empty plaintext.
	ErrDecryption = errors.New("decryption failed")
)

var pssOptions = &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: stdcrypto.SHA256}

// EncryptMessage seals plaintext for exactly one recipient.
//
// A fresh AES-256 key and 12-byte IV are drawn, the body is GCM-sealed, the
// key is OAEP-wrapped under the recipient's encryption public key, and the
// canonical envelope digest is PSS-signed under the sender's signing private
// key. The envelope ID and timestamp are left for the message store to
// assign.
func EncryptMessage(
	plaintext []byte,
	chat domaintypes.ChatID,
	sender domaintypes.UserID,
	recipient domaintypes.UserID,
	recipientEncryptionKey *rsa.PublicKey,
	senderSigningKey *rsa.PrivateKey,
) (domaintypes.EncryptedPayload, error) {
	symmetricKey, err := generateSymmetricKey()
	if err != nil {
		return domaintypes.EncryptedPayload{}, err
	}
	defer memzero.Zero(symmetricKey)

	block, err := aes.NewCipher(symmetricKey)
	if err != nil {
		return domaintypes.EncryptedPayload{}, fmt.Errorf("%w: aes cipher: %v", ErrCryptoOperation, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return domaintypes.EncryptedPayload{}, fmt.Errorf("%w: gcm: %v", ErrCryptoOperation, err)
	}

	iv := make([]byte, IVBytes)
	if _, err := rand.Read(iv); err != nil {
		return domaintypes.EncryptedPayload{}, fmt.Errorf("%w: generate iv: %v", ErrCryptoOperation, err)
	}
	ciphertext := aead.Seal(nil, iv, plaintext, nil)

	wrappedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, recipientEncryptionKey, symmetricKey, nil)
	if err != nil {
		return domaintypes.EncryptedPayload{}, fmt.Errorf("%w: wrap symmetric key: %v", ErrCryptoOperation, err)
	}

	payload := domaintypes.EncryptedPayload{
		ChatID:      chat,
		SenderID:    sender,
		RecipientID: recipient,
		Ciphertext:  ciphertext,
		IV:          iv,
		WrappedKey:  wrappedKey,
	}

	digest := signingDigest(payload)
	signature, err := rsa.SignPSS(rand.Reader, senderSigningKey, stdcrypto.SHA256, digest, pssOptions)
	if err != nil {
		return domaintypes.EncryptedPayload{}, fmt.Errorf("%w: sign envelope: %v", ErrCryptoOperation, err)
	}
	payload.Signature = signature
	return payload, nil
}

// DecryptMessage unwraps the symmetric key with the recipient's encryption
// private key and opens the GCM ciphertext. Both failure modes come back as
// ErrDecryption: a wrong key and a flipped ciphertext bit are
// indistinguishable to the caller by design.
func DecryptMessage(payload domaintypes.EncryptedPayload, recipientEncryptionKey *rsa.PrivateKey) ([]byte, error) {
	symmetricKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, recipientEncryptionKey, payload.WrappedKey, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrap symmetric key: %v", ErrDecryption, err)
	}
	defer memzero.Zero(symmetricKey)
	if len(symmetricKey) != SymmetricKeyBytes {
		return nil, fmt.Errorf("%w: unwrapped key has %d bytes", ErrDecryption, len(symmetricKey))
	}

	block, err := aes.NewCipher(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("%w: aes cipher: %v", ErrCryptoOperation, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: gcm: %v", ErrCryptoOperation, err)
	}
	if len(payload.IV) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: iv has %d bytes", ErrDecryption, len(payload.IV))
	}

	plaintext, err := aead.Open(nil, payload.IV, payload.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open ciphertext: %v", ErrDecryption, err)
	}
	return plaintext, nil
}

// VerifyPayloadSignature recomputes the canonical digest and checks the
// RSA-PSS signature. A mismatch is an expected, handleable outcome and so
// comes back as false, not as an error.
func VerifyPayloadSignature(payload domaintypes.EncryptedPayload, senderSigningKey *rsa.PublicKey) bool {
	digest := signingDigest(payload)
	return rsa.VerifyPSS(senderSigningKey, stdcrypto.SHA256, digest, payload.Signature, pssOptions) == nil
}

// signingDigest hashes the canonical envelope representation: chat, sender,
// recipient, IV, wrapped key and ciphertext, each 8-byte length-prefixed.
// Binding the chat and both identities prevents splicing an envelope into
// another conversation; the prefixes prevent field-boundary ambiguity.
func signingDigest(payload domaintypes.EncryptedPayload) []byte {
	h := sha256.New()
	writeLengthPrefixed(h, []byte(payload.ChatID))
	writeLengthPrefixed(h, []byte(payload.SenderID))
	writeLengthPrefixed(h, []byte(payload.RecipientID))
	writeLengthPrefixed(h, payload.IV)
	writeLengthPrefixed(h, payload.WrappedKey)
	writeLengthPrefixed(h, payload.Ciphertext)
	return h.Sum(nil)
}

func writeLengthPrefixed(h hash.Hash, field []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(field)))
	h.Write(n[:])
	h.Write(field)
}
