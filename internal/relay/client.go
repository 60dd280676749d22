package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"sealpost/internal/domain/interfaces"
	domaintypes "sealpost/internal/domain/types"
)

// Client talks to the relay server over HTTP.
type Client struct {
	base string
	http *http.Client
}

// New returns a client for the relay at base. A nil httpClient falls back
// to http.DefaultClient.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{base: base, http: httpClient}
}

// PublishRecord uploads or replaces the caller's public key record.
func (c *Client) PublishRecord(ctx context.Context, record domaintypes.PublicKeyRecord) error {
	path := "/directory/" + url.PathEscape(record.OwnerID.String())
	return c.doJSON(ctx, http.MethodPut, path, record, nil)
}

// FetchRecord retrieves a user's public key record; a 404 reports ok=false.
func (c *Client) FetchRecord(ctx context.Context, user domaintypes.UserID) (domaintypes.PublicKeyRecord, bool, error) {
	path := "/directory/" + url.PathEscape(user.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return domaintypes.PublicKeyRecord{}, false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domaintypes.PublicKeyRecord{}, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return domaintypes.PublicKeyRecord{}, false, nil
	}
	if resp.StatusCode/100 != 2 {
		return domaintypes.PublicKeyRecord{}, false, fmt.Errorf("relay get %s: %s", c.base+path, resp.Status)
	}
	var record domaintypes.PublicKeyRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return domaintypes.PublicKeyRecord{}, false, err
	}
	return record, true, nil
}

// Append posts one envelope and returns the store-assigned ID.
func (c *Client) Append(ctx context.Context, payload domaintypes.EncryptedPayload) (domaintypes.EnvelopeID, error) {
	path := "/chats/" + url.PathEscape(payload.ChatID.String()) + "/envelopes"
	var out struct {
		ID domaintypes.EnvelopeID `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, path, payload, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Fetch retrieves a chat's envelopes after the given cursor.
func (c *Client) Fetch(ctx context.Context, chat domaintypes.ChatID, after domaintypes.EnvelopeID, limit int) ([]domaintypes.EncryptedPayload, error) {
	path := "/chats/" + url.PathEscape(chat.String()) + "/envelopes"
	query := url.Values{}
	if after != "" {
		query.Set("after", after.String())
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var envelopes []domaintypes.EncryptedPayload
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &envelopes); err != nil {
		return nil, err
	}
	return envelopes, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("relay %s %s: %s", method, c.base+path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Compile-time assertions that Client implements the collaborator contracts.
var (
	_ interfaces.Directory    = (*Client)(nil)
	_ interfaces.MessageStore = (*Client)(nil)
)
