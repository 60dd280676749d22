package types

import "crypto/rsa"

// DeviceKeys is the private key material generated once per device and kept
// in local storage only. Both halves are PKCS#8 DER; they are never placed
// in an envelope or published to the directory.
type DeviceKeys struct {
	EncryptionKey []byte `json:"encryption_key"`
	SigningKey    []byte `json:"signing_key"`
	CreatedUTC    int64  `json:"created_utc"`
}

// PrivateKeys is the parsed, in-memory form of DeviceKeys handed to the
// crypto layer. Values are only ever dereferenced on the device that
// generated them.
type PrivateKeys struct {
	Encryption *rsa.PrivateKey
	Signing    *rsa.PrivateKey
}
