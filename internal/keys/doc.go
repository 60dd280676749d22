// Package keys manages the lifecycle of local device key material and its
// publication to the directory.
//
// It generates the RSA encryption and signing pairs on first use, persists
// the private halves via the Keystore (local only), publishes the public
// halves as a JWK record, and resolves other users' records for the channel
// layer. Key rotation is deliberately not offered: regenerating keys would
// orphan every envelope encrypted under the old ones.
package keys
