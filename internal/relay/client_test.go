package relay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domaintypes "sealpost/internal/domain/types"
	"sealpost/internal/relay"
	"sealpost/internal/relayserver"
)

// newTestRelay stands up a real relay server and a client pointed at it.
func newTestRelay(t *testing.T) *relay.Client {
	t.Helper()
	srv := httptest.NewServer(relayserver.New().Echo())
	t.Cleanup(srv.Close)
	return relay.New(srv.URL, srv.Client())
}

func envelope(chat domaintypes.ChatID, sender, recipient domaintypes.UserID) domaintypes.EncryptedPayload {
	return domaintypes.EncryptedPayload{
		ChatID:      chat,
		SenderID:    sender,
		RecipientID: recipient,
		Ciphertext:  []byte("sealed body"),
		IV:          bytes.Repeat([]byte{0x24}, 12),
		WrappedKey:  []byte("wrapped key"),
		Signature:   []byte("signature"),
	}
}

func TestDirectory_PublishAndFetch(t *testing.T) {
	client := newTestRelay(t)
	ctx := context.Background()

	_, ok, err := client.FetchRecord(ctx, "alice")
	require.NoError(t, err)
	require.False(t, ok)

	record := domaintypes.PublicKeyRecord{
		OwnerID:       "alice",
		EncryptionKey: json.RawMessage(`{"kty":"RSA","use":"enc"}`),
		SigningKey:    json.RawMessage(`{"kty":"RSA","use":"sig"}`),
	}
	require.NoError(t, client.PublishRecord(ctx, record))

	got, ok, err := client.FetchRecord(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record.OwnerID, got.OwnerID)
	require.JSONEq(t, string(record.EncryptionKey), string(got.EncryptionKey))
	require.JSONEq(t, string(record.SigningKey), string(got.SigningKey))
	require.NotZero(t, got.UpdatedUTC)
}

func TestMessages_AppendAndFetch(t *testing.T) {
	client := newTestRelay(t)
	ctx := context.Background()

	var ids []domaintypes.EnvelopeID
	for _, recipient := range []domaintypes.UserID{"bob", "carol", "dave"} {
		id, err := client.Append(ctx, envelope("chat-1", "alice", recipient))
		require.NoError(t, err)
		require.NotEmpty(t, id)
		ids = append(ids, id)
	}

	all, err := client.Fetch(ctx, "chat-1", "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, env := range all {
		require.Equal(t, ids[i], env.ID)
		require.Equal(t, domaintypes.ChatID("chat-1"), env.ChatID)
		require.NotZero(t, env.Timestamp)
	}

	// Cursor pagination: everything after the second envelope.
	tail, err := client.Fetch(ctx, "chat-1", ids[1], 0)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	require.Equal(t, ids[2], tail[0].ID)

	limited, err := client.Fetch(ctx, "chat-1", "", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)

	empty, err := client.Fetch(ctx, "chat-other", "", 0)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestAppend_RejectsMalformedEnvelope(t *testing.T) {
	client := newTestRelay(t)

	bad := envelope("chat-1", "alice", "bob")
	bad.IV = bad.IV[:8]

	_, err := client.Append(context.Background(), bad)
	require.Error(t, err)

	all, err := client.Fetch(context.Background(), "chat-1", "", 0)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestSubscribe_StreamsLiveAppends(t *testing.T) {
	client := newTestRelay(t)
	ctx := context.Background()

	messages, cancel, err := client.Subscribe(ctx, "chat-ws")
	require.NoError(t, err)
	defer cancel()

	// The subscription dials asynchronously, so keep appending until one
	// envelope makes it through the socket.
	var got domaintypes.EncryptedPayload
	require.Eventually(t, func() bool {
		if _, err := client.Append(ctx, envelope("chat-ws", "alice", "bob")); err != nil {
			return false
		}
		select {
		case got = <-messages:
			return true
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	require.Equal(t, domaintypes.UserID("bob"), got.RecipientID)
	require.NotEmpty(t, got.ID)

	// Cancelling the subscription closes the stream.
	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, open := <-messages:
			if !open {
				return
			}
		case <-deadline:
			t.Fatal("stream did not close after cancel")
		}
	}
}
