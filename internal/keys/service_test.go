package keys_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"sealpost/internal/crypto"
	domaintypes "sealpost/internal/domain/types"
	"sealpost/internal/keys"
	"sealpost/internal/store"
)

// fakeDirectory is an in-memory Directory collaborator.
type fakeDirectory struct {
	mu        sync.Mutex
	records   map[domaintypes.UserID]domaintypes.PublicKeyRecord
	publishes int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{records: make(map[domaintypes.UserID]domaintypes.PublicKeyRecord)}
}

func (d *fakeDirectory) PublishRecord(_ context.Context, record domaintypes.PublicKeyRecord) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[record.OwnerID] = record
	d.publishes++
	return nil
}

func (d *fakeDirectory) FetchRecord(_ context.Context, user domaintypes.UserID) (domaintypes.PublicKeyRecord, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	record, ok := d.records[user]
	return record, ok, nil
}

func TestEnsureDeviceKeys_IdempotentAndPublished(t *testing.T) {
	directory := newFakeDirectory()
	svc := keys.New(store.NewFileKeystore(t.TempDir()), directory)
	ctx := context.Background()

	first, fp1, err := svc.EnsureDeviceKeys(ctx, "pass", "alice")
	require.NoError(t, err)
	require.Equal(t, domaintypes.UserID("alice"), first.OwnerID)
	require.NotEmpty(t, first.EncryptionKey)
	require.NotEmpty(t, first.SigningKey)

	// Second call must return the same key material, not regenerate.
	second, fp2, err := svc.EnsureDeviceKeys(ctx, "pass", "alice")
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
	require.JSONEq(t, string(first.EncryptionKey), string(second.EncryptionKey))
	require.JSONEq(t, string(first.SigningKey), string(second.SigningKey))

	// The record is re-published on every call so a lost publish heals.
	require.Equal(t, 2, directory.publishes)
}

func TestPrivateKeys_NotInitialized(t *testing.T) {
	svc := keys.New(store.NewFileKeystore(t.TempDir()), newFakeDirectory())

	_, err := svc.PrivateKeys("pass")
	require.ErrorIs(t, err, keys.ErrKeysNotFound)
}

func TestPrivateKeys_MatchPublishedRecord(t *testing.T) {
	directory := newFakeDirectory()
	svc := keys.New(store.NewFileKeystore(t.TempDir()), directory)
	ctx := context.Background()

	record, _, err := svc.EnsureDeviceKeys(ctx, "pass", "alice")
	require.NoError(t, err)

	private, err := svc.PrivateKeys("pass")
	require.NoError(t, err)

	// Wrap under the published encryption JWK, unwrap with the local
	// private half: the two must belong together.
	published, err := crypto.ImportEncryptionPublicKey(record.EncryptionKey)
	require.NoError(t, err)

	signer, err := crypto.GenerateSigningKeyPair()
	require.NoError(t, err)
	payload, err := crypto.EncryptMessage([]byte("ping"), "c", "x", "alice", published, signer)
	require.NoError(t, err)

	plaintext, err := crypto.DecryptMessage(payload, private.Encryption)
	require.NoError(t, err)
	require.Equal(t, []byte("ping"), plaintext)
}

func TestLookupPublicKeys_UnknownRecipient(t *testing.T) {
	svc := keys.New(store.NewFileKeystore(t.TempDir()), newFakeDirectory())

	_, err := svc.LookupPublicKeys(context.Background(), "nobody")
	require.ErrorIs(t, err, keys.ErrUnknownRecipient)
}

func TestFingerprintDevice(t *testing.T) {
	svc := keys.New(store.NewFileKeystore(t.TempDir()), newFakeDirectory())

	_, fp, err := svc.EnsureDeviceKeys(context.Background(), "pass", "alice")
	require.NoError(t, err)

	got, err := svc.FingerprintDevice("pass")
	require.NoError(t, err)
	require.Equal(t, fp, got)
}
