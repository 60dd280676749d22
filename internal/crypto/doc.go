// Package crypto exposes the cryptographic primitives used by sealpost.
//
// Contents
//
//   - RSA key pair generation for the two device key purposes: OAEP
//     encryption (key wrapping) and PSS signing (GenerateEncryptionKeyPair,
//     GenerateSigningKeyPair)
//   - Hybrid envelope encryption and decryption (EncryptMessage,
//     DecryptMessage): a fresh AES-256-GCM key per message, wrapped with
//     RSA-OAEP for exactly one recipient
//   - Envelope signature verification (VerifyPayloadSignature)
//   - JWK serialization of public keys (ExportPublicKey,
//     ImportEncryptionPublicKey, ImportSigningPublicKey)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// All functions are stateless. RSA never touches message bodies: it wraps
// the per-message symmetric key and signs the canonical envelope digest,
// nothing else. Callers should treat returned secrets as sensitive and rely
// on memzero.Zero when practical to reduce lifetime in memory.
package crypto
