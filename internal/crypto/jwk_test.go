package crypto_test

import (
	"encoding/json"
	"testing"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/require"

	"sealpost/internal/crypto"
)

func TestExportImport_EncryptionKeyInverse(t *testing.T) {
	recipient, signer, _ := fixtures(t)

	exported, err := crypto.ExportPublicKey(&recipient.PublicKey, jwk.ForEncryption)
	require.NoError(t, err)

	imported, err := crypto.ImportEncryptionPublicKey(exported)
	require.NoError(t, err)

	// Encrypt with the imported key, decrypt with the original private
	// half: import(export(k)) must be functionally identical to k.
	payload, err := crypto.EncryptMessage(
		[]byte("round and round"), "chat-1", "alice", "bob", imported, signer)
	require.NoError(t, err)

	plaintext, err := crypto.DecryptMessage(payload, recipient)
	require.NoError(t, err)
	require.Equal(t, []byte("round and round"), plaintext)
}

func TestExportImport_SigningKeyInverse(t *testing.T) {
	_, signer, _ := fixtures(t)
	payload := encrypt(t, []byte("verify me"))

	exported, err := crypto.ExportPublicKey(&signer.PublicKey, jwk.ForSignature)
	require.NoError(t, err)

	imported, err := crypto.ImportSigningPublicKey(exported)
	require.NoError(t, err)
	require.True(t, crypto.VerifyPayloadSignature(payload, imported))
}

func TestExportPublicKey_CarriesUsage(t *testing.T) {
	recipient, _, _ := fixtures(t)

	exported, err := crypto.ExportPublicKey(&recipient.PublicKey, jwk.ForEncryption)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(exported, &fields))
	require.Equal(t, "RSA", fields["kty"])
	require.Equal(t, "enc", fields["use"])
}

func TestImport_RejectsGarbage(t *testing.T) {
	_, err := crypto.ImportEncryptionPublicKey([]byte(`{"kty":"banana"}`))
	require.ErrorIs(t, err, crypto.ErrCryptoOperation)

	_, err = crypto.ImportSigningPublicKey([]byte(`not json at all`))
	require.ErrorIs(t, err, crypto.ErrCryptoOperation)
}
