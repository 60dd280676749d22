package types

// DecryptedMessage is what the channel hands back for one envelope.
//
// SignatureValid reports whether the sender's RSA-PSS signature checked out.
// A failed check does not suppress the plaintext; rendering policy for
// unverified messages belongs to the caller.
type DecryptedMessage struct {
	EnvelopeID     EnvelopeID `json:"envelope_id"`
	ChatID         ChatID     `json:"chat_id"`
	SenderID       UserID     `json:"sender_id"`
	Plaintext      []byte     `json:"plaintext"`
	SignatureValid bool       `json:"signature_valid"`
	Timestamp      int64      `json:"timestamp"`
}
