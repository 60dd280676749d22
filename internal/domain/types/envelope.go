package types

// EncryptedPayload is the wire envelope appended to the message store. One
// envelope is addressed to exactly one recipient: group messages are N
// independent envelopes, because the symmetric key wrap is bound to a single
// recipient key. Envelopes are immutable once appended.
//
// Field contract:
//   - Ciphertext is the AES-256-GCM sealed message body (tag included).
//   - IV is the fresh 12-byte GCM nonce, never reused with the same key.
//   - WrappedKey is the per-message AES key, RSA-OAEP wrapped under the
//     recipient's encryption public key.
//   - Signature is an RSA-PSS signature over the canonical representation
//     (chat, sender, recipient, IV, wrapped key, ciphertext), so an
//     envelope cannot be spliced into another conversation.
type EncryptedPayload struct {
	ID          EnvelopeID `json:"id,omitempty"`
	ChatID      ChatID     `json:"chat_id" validate:"required"`
	SenderID    UserID     `json:"sender_id" validate:"required"`
	RecipientID UserID     `json:"recipient_id" validate:"required"`
	Ciphertext  []byte     `json:"ciphertext" validate:"required"`
	IV          []byte     `json:"iv" validate:"required,len=12"`
	WrappedKey  []byte     `json:"wrapped_key" validate:"required"`
	Signature   []byte     `json:"signature" validate:"required"`
	Timestamp   int64      `json:"timestamp"`
}
