// Package app loads runtime configuration and assembles the dependency
// graph (keystore, services, relay client) used by the CLI.
package app
