package interfaces

import (
	"context"

	domaintypes "sealpost/internal/domain/types"
)

// KeyService owns the lifecycle of local key material and its publication
// to the directory.
type KeyService interface {
	// EnsureDeviceKeys generates and publishes key material on first use
	// and is a no-op for the key material afterwards (stable device
	// identity). The directory record is re-published on every call so a
	// failed first publish heals itself.
	EnsureDeviceKeys(ctx context.Context, passphrase string, owner domaintypes.UserID) (domaintypes.PublicKeyRecord, domaintypes.Fingerprint, error)

	// PrivateKeys fails with ErrKeysNotFound when EnsureDeviceKeys was
	// never called on this device. It never regenerates: fresh keys would
	// orphan everything encrypted under the old ones.
	PrivateKeys(passphrase string) (domaintypes.PrivateKeys, error)

	LookupPublicKeys(ctx context.Context, user domaintypes.UserID) (domaintypes.PublicKeyRecord, error)

	FingerprintDevice(passphrase string) (domaintypes.Fingerprint, error)
}

// MessageChannel orchestrates encrypted send and receive between the caller
// and the crypto/key layers.
type MessageChannel interface {
	// Send encrypts plaintext independently for every recipient and
	// appends one envelope each. If any recipient has no published key
	// record the whole send fails before anything is appended.
	Send(ctx context.Context, passphrase string, chat domaintypes.ChatID, from domaintypes.UserID, recipients []domaintypes.UserID, plaintext []byte) error

	// Receive decrypts and verifies one envelope addressed to this device,
	// consulting the decryption cache first.
	Receive(ctx context.Context, passphrase string, payload domaintypes.EncryptedPayload) (domaintypes.DecryptedMessage, error)

	// Watch subscribes to a chat and streams decrypted messages addressed
	// to me. The cancel function releases the subscription.
	Watch(ctx context.Context, passphrase string, chat domaintypes.ChatID, me domaintypes.UserID) (<-chan domaintypes.DecryptedMessage, func(), error)
}
