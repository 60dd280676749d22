// Package store provides the device-local secret storage for sealpost.
//
// It contains the concrete implementation of the Keystore interface,
// persisting private key material as a passphrase-encrypted blob on disk.
// The blob never leaves the device; the directory only ever sees exported
// public halves. All methods are concurrency-safe via internal locking and
// writes are atomic (temp file, then rename).
package store
