package app

import (
	"net/http"

	"sealpost/internal/channel"
	"sealpost/internal/domain/interfaces"
	"sealpost/internal/keys"
	"sealpost/internal/relay"
	"sealpost/internal/store"
)

// Wire bundles the keystore, services, and relay client for the CLI.
type Wire struct {
	Keystore interfaces.Keystore
	Keys     interfaces.KeyService
	Channel  interfaces.MessageChannel
	Relay    *relay.Client
	HTTP     *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	keystore := store.NewFileKeystore(cfg.Home)

	// Ensure an HTTP client is available for outbound calls.
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// One relay client serves as both directory and message store.
	relayClient := relay.New(cfg.RelayURL, httpClient)

	keySvc := keys.New(keystore, relayClient)
	channelSvc, err := channel.New(keySvc, relayClient, cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Wire{
		Keystore: keystore,
		Keys:     keySvc,
		Channel:  channelSvc,
		Relay:    relayClient,
		HTTP:     httpClient,
	}, nil
}
