package crypto_test

import (
	"crypto/rsa"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"sealpost/internal/crypto"
	domaintypes "sealpost/internal/domain/types"
)

// Key generation dominates test time, so all tests share one set of
// parties. Nothing here mutates key material.
var (
	fixturesOnce sync.Once
	recipientKey *rsa.PrivateKey
	signerKey    *rsa.PrivateKey
	strangerKey  *rsa.PrivateKey
)

func fixtures(t *testing.T) (recipient, signer, stranger *rsa.PrivateKey) {
	t.Helper()
	fixturesOnce.Do(func() {
		var err error
		if recipientKey, err = crypto.GenerateEncryptionKeyPair(); err != nil {
			t.Fatalf("GenerateEncryptionKeyPair: %v", err)
		}
		if signerKey, err = crypto.GenerateSigningKeyPair(); err != nil {
			t.Fatalf("GenerateSigningKeyPair: %v", err)
		}
		if strangerKey, err = crypto.GenerateEncryptionKeyPair(); err != nil {
			t.Fatalf("GenerateEncryptionKeyPair: %v", err)
		}
	})
	return recipientKey, signerKey, strangerKey
}

func encrypt(t *testing.T, plaintext []byte) domaintypes.EncryptedPayload {
	t.Helper()
	recipient, signer, _ := fixtures(t)
	payload, err := crypto.EncryptMessage(
		plaintext, "chat-1", "alice", "bob", &recipient.PublicKey, signer)
	require.NoError(t, err)
	return payload
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	recipient, _, _ := fixtures(t)

	for _, plaintext := range []string{"hi", "", "a longer message with some unicode: héllo wörld"} {
		payload := encrypt(t, []byte(plaintext))

		got, err := crypto.DecryptMessage(payload, recipient)
		require.NoError(t, err)
		require.Equal(t, []byte(plaintext), got)
	}
}

func TestDecrypt_TamperedCiphertextFails(t *testing.T) {
	recipient, _, _ := fixtures(t)
	payload := encrypt(t, []byte("the plan is off"))

	payload.Ciphertext[0] ^= 0x01

	_, err := crypto.DecryptMessage(payload, recipient)
	require.ErrorIs(t, err, crypto.ErrDecryption)
}

func TestDecrypt_WrongRecipientKeyFails(t *testing.T) {
	_, _, stranger := fixtures(t)
	payload := encrypt(t, []byte("for bob only"))

	// The wrapped key is bound to the recipient's key pair; a different
	// private key must not yield a plaintext.
	_, err := crypto.DecryptMessage(payload, stranger)
	require.ErrorIs(t, err, crypto.ErrDecryption)
}

func TestDecrypt_BadIVFails(t *testing.T) {
	recipient, _, _ := fixtures(t)
	payload := encrypt(t, []byte("short iv"))
	payload.IV = payload.IV[:8]

	_, err := crypto.DecryptMessage(payload, recipient)
	require.ErrorIs(t, err, crypto.ErrDecryption)
}

func TestVerifyPayloadSignature(t *testing.T) {
	_, signer, _ := fixtures(t)
	payload := encrypt(t, []byte("signed sealed delivered"))

	require.True(t, crypto.VerifyPayloadSignature(payload, &signer.PublicKey))

	tampered := func(mutate func(*domaintypes.EncryptedPayload)) domaintypes.EncryptedPayload {
		p := payload
		p.Ciphertext = append([]byte(nil), payload.Ciphertext...)
		p.IV = append([]byte(nil), payload.IV...)
		mutate(&p)
		return p
	}

	t.Run("ciphertext bit flipped", func(t *testing.T) {
		p := tampered(func(p *domaintypes.EncryptedPayload) { p.Ciphertext[3] ^= 0x80 })
		require.False(t, crypto.VerifyPayloadSignature(p, &signer.PublicKey))
	})
	t.Run("iv bit flipped", func(t *testing.T) {
		p := tampered(func(p *domaintypes.EncryptedPayload) { p.IV[0] ^= 0x01 })
		require.False(t, crypto.VerifyPayloadSignature(p, &signer.PublicKey))
	})
	t.Run("recipient swapped", func(t *testing.T) {
		p := tampered(func(p *domaintypes.EncryptedPayload) { p.RecipientID = "mallory" })
		require.False(t, crypto.VerifyPayloadSignature(p, &signer.PublicKey))
	})
	t.Run("chat swapped", func(t *testing.T) {
		p := tampered(func(p *domaintypes.EncryptedPayload) { p.ChatID = "chat-2" })
		require.False(t, crypto.VerifyPayloadSignature(p, &signer.PublicKey))
	})
	t.Run("wrong signer", func(t *testing.T) {
		other, err := crypto.GenerateSigningKeyPair()
		require.NoError(t, err)
		require.False(t, crypto.VerifyPayloadSignature(payload, &other.PublicKey))
	})
}

func TestEncrypt_FreshIVPerMessage(t *testing.T) {
	plaintext := []byte("same words twice")
	first := encrypt(t, plaintext)
	second := encrypt(t, plaintext)

	// Fresh key and IV every time: identical plaintexts must not produce
	// identical envelopes.
	require.NotEqual(t, first.IV, second.IV)
	require.NotEqual(t, first.Ciphertext, second.Ciphertext)
	require.NotEqual(t, first.WrappedKey, second.WrappedKey)
	require.Len(t, first.IV, crypto.IVBytes)
}
