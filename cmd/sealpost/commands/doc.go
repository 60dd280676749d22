// Package commands defines the sealpost CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - init           Generate device keys and publish the public record
//   - fingerprint    Print the device key fingerprint
//   - send           Encrypt and send a message to one or more recipients
//   - recv           Fetch and decrypt a chat's queued envelopes
//   - watch          Stream a chat's envelopes live and decrypt them
//
// # Implementation
//
// The root command loads configuration (environment plus flags) and builds
// a dependency graph (keystore, services, relay client) before any
// subcommand runs, so handlers share an app context with connection
// pooling.
package commands
