// Command relay runs the untrusted store-and-forward server: the public key
// directory and the append-only envelope store behind one HTTP/WebSocket
// API. It never sees key material or plaintext.
package main
