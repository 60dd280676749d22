package types

// UserID identifies a user registered with the directory.
type UserID string

// String returns the string form of the user identifier.
func (u UserID) String() string { return string(u) }

// ChatID identifies a conversation on the message store.
type ChatID string

// String returns the string form of the chat identifier.
func (c ChatID) String() string { return string(c) }

// EnvelopeID uniquely identifies an envelope appended to the message store.
// It is assigned by the store, never by the sender.
type EnvelopeID string

// String returns the string form of the envelope identifier.
func (id EnvelopeID) String() string { return string(id) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
