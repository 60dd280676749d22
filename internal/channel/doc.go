// Package channel orchestrates encrypted send and receive between callers
// and the crypto/key layers.
//
// Sends are all-or-nothing per group: every recipient's key record is
// resolved before any envelope is appended, and each recipient gets an
// independently encrypted envelope. Receives consult a bounded LRU
// decryption cache first; a miss re-derives the plaintext from the
// immutable ciphertext, which is always correct, so eviction never needs
// invalidation. The cache is process-local and dies with the session.
package channel
