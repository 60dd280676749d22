// Package relayserver implements the untrusted relay: a combined directory
// and message store behind one HTTP API.
//
// The relay holds public key records and opaque envelopes; it cannot read
// message bodies and is trusted only for availability, never for
// confidentiality. Envelopes are validated structurally at the boundary and
// rejected before storage if malformed. State is in-memory and
// mutex-guarded; envelope IDs are ksuids, so a chat's ID order is also its
// append order.
//
// Routes
//
//	PUT  /directory/:user           publish/replace a public key record
//	GET  /directory/:user           fetch a public key record
//	POST /chats/:chat/envelopes     append one envelope
//	GET  /chats/:chat/envelopes     list envelopes (?after=<id>&limit=<n>)
//	GET  /ws/chats/:chat            WebSocket stream of new envelopes
package relayserver
