package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"sealpost/internal/crypto"
	"sealpost/internal/domain/interfaces"
	domaintypes "sealpost/internal/domain/types"
)

// DefaultCacheSize bounds the decryption cache when the caller passes 0.
const DefaultCacheSize = 256

// cacheEntry is the ephemeral result of one successful decryption.
type cacheEntry struct {
	plaintext      []byte
	signatureValid bool
}

// Service sends and receives encrypted envelopes through the message store.
type Service struct {
	keys  interfaces.KeyService
	store interfaces.MessageStore
	cache *lru.Cache[domaintypes.EnvelopeID, cacheEntry]
}

// New constructs a channel with a bounded decryption cache.
func New(keys interfaces.KeyService, store interfaces.MessageStore, cacheSize int) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[domaintypes.EnvelopeID, cacheEntry](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{keys: keys, store: store, cache: cache}, nil
}

// Send encrypts plaintext independently for every recipient and appends one
// envelope each.
//
// The send is staged so that a recipient without a key record fails the
// whole group before any envelope is appended: a partially delivered
// encrypted message is worse than none. Append failures mid-group abort the
// remaining appends; already-delivered envelopes are immutable and stay,
// and the caller retries the whole send.
func (s *Service) Send(
	ctx context.Context,
	passphrase string,
	chat domaintypes.ChatID,
	from domaintypes.UserID,
	recipients []domaintypes.UserID,
	plaintext []byte,
) error {
	if len(recipients) == 0 {
		return errors.New("no recipients")
	}
	privateKeys, err := s.keys.PrivateKeys(passphrase)
	if err != nil {
		return err
	}

	// Stage 1: resolve every recipient record. Any miss fails the send
	// with zero envelopes appended.
	seen := make(map[domaintypes.UserID]bool, len(recipients))
	records := make([]domaintypes.PublicKeyRecord, 0, len(recipients))
	for _, recipient := range recipients {
		if seen[recipient] {
			continue
		}
		seen[recipient] = true
		record, err := s.keys.LookupPublicKeys(ctx, recipient)
		if err != nil {
			return err
		}
		records = append(records, record)
	}

	// Stage 2: encrypt per recipient. Crypto failures also precede any
	// append.
	payloads := make([]domaintypes.EncryptedPayload, 0, len(records))
	for _, record := range records {
		encryptionKey, err := crypto.ImportEncryptionPublicKey(record.EncryptionKey)
		if err != nil {
			return fmt.Errorf("recipient %s: %w", record.OwnerID, err)
		}
		payload, err := crypto.EncryptMessage(plaintext, chat, from, record.OwnerID, encryptionKey, privateKeys.Signing)
		if err != nil {
			return fmt.Errorf("recipient %s: %w", record.OwnerID, err)
		}
		payloads = append(payloads, payload)
	}

	// Stage 3: append. First failure aborts the rest.
	for _, payload := range payloads {
		if _, err := s.store.Append(ctx, payload); err != nil {
			return fmt.Errorf("append envelope for %s: %w", payload.RecipientID, err)
		}
	}
	return nil
}

// Receive decrypts one envelope addressed to this device and verifies the
// sender's signature.
//
// Verification failure does not suppress the plaintext: the result carries
// SignatureValid=false and rendering policy stays with the caller. A hard
// decrypt failure (crypto.ErrDecryption) propagates unmodified.
func (s *Service) Receive(
	ctx context.Context,
	passphrase string,
	payload domaintypes.EncryptedPayload,
) (domaintypes.DecryptedMessage, error) {
	if payload.ID != "" {
		if entry, ok := s.cache.Get(payload.ID); ok {
			return assemble(payload, entry), nil
		}
	}

	privateKeys, err := s.keys.PrivateKeys(passphrase)
	if err != nil {
		return domaintypes.DecryptedMessage{}, err
	}
	plaintext, err := crypto.DecryptMessage(payload, privateKeys.Encryption)
	if err != nil {
		return domaintypes.DecryptedMessage{}, err
	}

	entry := cacheEntry{plaintext: plaintext, signatureValid: s.verify(ctx, payload)}
	if payload.ID != "" {
		s.cache.Add(payload.ID, entry)
	}
	return assemble(payload, entry), nil
}

// Watch subscribes to a chat and streams decrypted messages addressed to
// me. Envelopes for other recipients are skipped; undecryptable envelopes
// are logged and skipped rather than tearing the stream down.
func (s *Service) Watch(
	ctx context.Context,
	passphrase string,
	chat domaintypes.ChatID,
	me domaintypes.UserID,
) (<-chan domaintypes.DecryptedMessage, func(), error) {
	envelopes, cancel, err := s.store.Subscribe(ctx, chat)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan domaintypes.DecryptedMessage)
	go func() {
		defer close(out)
		for payload := range envelopes {
			if payload.RecipientID != me {
				continue
			}
			message, err := s.Receive(ctx, passphrase, payload)
			if err != nil {
				slog.Warn("dropping undecryptable envelope",
					"envelope", payload.ID, "sender", payload.SenderID, "error", err)
				continue
			}
			select {
			case out <- message:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, cancel, nil
}

// verify checks the envelope signature against the sender's published
// signing key. An unresolvable sender record means the signature cannot be
// checked and counts as invalid.
func (s *Service) verify(ctx context.Context, payload domaintypes.EncryptedPayload) bool {
	record, err := s.keys.LookupPublicKeys(ctx, payload.SenderID)
	if err != nil {
		slog.Warn("cannot resolve sender signing key",
			"sender", payload.SenderID, "error", err)
		return false
	}
	signingKey, err := crypto.ImportSigningPublicKey(record.SigningKey)
	if err != nil {
		slog.Warn("cannot import sender signing key",
			"sender", payload.SenderID, "error", err)
		return false
	}
	return crypto.VerifyPayloadSignature(payload, signingKey)
}

func assemble(payload domaintypes.EncryptedPayload, entry cacheEntry) domaintypes.DecryptedMessage {
	return domaintypes.DecryptedMessage{
		EnvelopeID:     payload.ID,
		ChatID:         payload.ChatID,
		SenderID:       payload.SenderID,
		Plaintext:      entry.plaintext,
		SignatureValid: entry.signatureValid,
		Timestamp:      payload.Timestamp,
	}
}

// Compile-time assertion that Service implements interfaces.MessageChannel.
var _ interfaces.MessageChannel = (*Service)(nil)
