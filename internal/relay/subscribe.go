package relay

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	domaintypes "sealpost/internal/domain/types"
)

// Subscribe opens a WebSocket to the relay and streams envelopes appended
// to the chat. The connection is re-dialed with exponential backoff until
// the context is done or cancel is called; the returned channel closes once
// the subscription is released.
func (c *Client) Subscribe(ctx context.Context, chat domaintypes.ChatID) (<-chan domaintypes.EncryptedPayload, func(), error) {
	wsURL, err := c.websocketURL("/ws/chats/" + url.PathEscape(chat.String()))
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan domaintypes.EncryptedPayload)

	go func() {
		defer close(out)

		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = 0 // retry until cancelled

		for {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				wait := bo.NextBackOff()
				slog.Warn("relay subscribe dial failed; retrying",
					"url", wsURL, "wait", wait, "error", err)
				select {
				case <-time.After(wait):
					continue
				case <-ctx.Done():
					return
				}
			}
			bo.Reset()
			c.readEnvelopes(ctx, conn, out)
			if ctx.Err() != nil {
				return
			}
		}
	}()
	return out, cancel, nil
}

// readEnvelopes pumps envelopes from one connection until it breaks or the
// context is done. The connection is always closed on return.
func (c *Client) readEnvelopes(ctx context.Context, conn *websocket.Conn, out chan<- domaintypes.EncryptedPayload) {
	done := make(chan struct{})
	defer close(done)

	// Unblock ReadJSON when the subscription is cancelled.
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	for {
		var payload domaintypes.EncryptedPayload
		if err := conn.ReadJSON(&payload); err != nil {
			if ctx.Err() == nil {
				slog.Warn("relay subscription read failed", "error", err)
			}
			return
		}
		select {
		case out <- payload:
		case <-ctx.Done():
			return
		}
	}
}

// websocketURL rewrites the HTTP base to the ws scheme.
func (c *Client) websocketURL(path string) (string, error) {
	u, err := url.Parse(c.base)
	if err != nil {
		return "", err
	}
	switch {
	case strings.EqualFold(u.Scheme, "https"):
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String(), nil
}
