package interfaces

import (
	"context"

	domaintypes "sealpost/internal/domain/types"
)

// Directory is the untrusted, non-confidential store mapping user identity
// to public key material.
type Directory interface {
	PublishRecord(ctx context.Context, record domaintypes.PublicKeyRecord) error

	// FetchRecord reports ok=false when the user has never published a
	// record (the user is not encryption-ready).
	FetchRecord(ctx context.Context, user domaintypes.UserID) (record domaintypes.PublicKeyRecord, ok bool, err error)
}

// MessageStore is the append-only envelope store. Ordering within a chat is
// whatever the store's own sequence metadata says; envelopes are decryptable
// independently of arrival order.
type MessageStore interface {
	// Append persists one envelope and returns the store-assigned ID.
	Append(ctx context.Context, payload domaintypes.EncryptedPayload) (domaintypes.EnvelopeID, error)

	// Fetch returns envelopes for a chat after the given ID (all from the
	// start when after is empty), at most limit when limit > 0.
	Fetch(ctx context.Context, chat domaintypes.ChatID, after domaintypes.EnvelopeID, limit int) ([]domaintypes.EncryptedPayload, error)

	// Subscribe streams envelopes appended to the chat from now on. The
	// returned cancel function releases the underlying connection and
	// closes the stream; it is safe to call more than once.
	Subscribe(ctx context.Context, chat domaintypes.ChatID) (<-chan domaintypes.EncryptedPayload, func(), error)
}
