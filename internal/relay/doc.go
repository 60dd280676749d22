// Package relay provides the HTTP/WebSocket implementation of the
// Directory and MessageStore interfaces used by sealpost.
//
// The relay is an untrusted store-and-forward service: it holds public key
// records and opaque encrypted envelopes, and it never sees key material or
// plaintext. This package offers a concrete client for interacting with
// such a relay server.
//
// Supported operations include:
//   - Publishing our public key record to the directory.
//   - Fetching a user's public key record.
//   - Appending encrypted envelopes to a chat.
//   - Fetching a chat's envelopes with cursor and limit.
//   - Subscribing to a chat over WebSocket with automatic reconnect.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as errors with the HTTP method,
// full URL, and status text to aid diagnostics.
package relay
