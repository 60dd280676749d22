package types

import "encoding/json"

// PublicKeyRecord is the directory entry published for a user. Key material
// is serialized as RSA public JWKs so any device can import it without
// sharing a binary format. The record is replaced wholesale on re-publish;
// no history is kept.
type PublicKeyRecord struct {
	OwnerID       UserID          `json:"owner_id" validate:"required"`
	EncryptionKey json.RawMessage `json:"encryption_key" validate:"required"`
	SigningKey    json.RawMessage `json:"signing_key" validate:"required"`
	UpdatedUTC    int64           `json:"updated_utc"`
}
