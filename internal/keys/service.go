package keys

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"sealpost/internal/crypto"
	"sealpost/internal/domain/interfaces"
	domaintypes "sealpost/internal/domain/types"
	"sealpost/internal/util/memzero"
)

var (
	// ErrKeysNotFound indicates the device was never initialized. Callers
	// must run EnsureDeviceKeys; silently regenerating here would orphan
	// previously encrypted messages.
	ErrKeysNotFound = errors.New("device keys not found")

	// ErrUnknownRecipient indicates the user has no published key record
	// and cannot receive encrypted messages yet.
	ErrUnknownRecipient = errors.New("recipient has no published key record")
)

// Service owns device key material and directory publication.
type Service struct {
	keystore  interfaces.Keystore
	directory interfaces.Directory
}

// New returns a key service backed by the given keystore and directory.
func New(keystore interfaces.Keystore, directory interfaces.Directory) *Service {
	return &Service{keystore: keystore, directory: directory}
}

// EnsureDeviceKeys returns the device's public key record, generating and
// persisting fresh key material only if none exists. The record is
// (re-)published to the directory on every call, so a publish that failed
// after a successful local save heals on the next invocation.
func (s *Service) EnsureDeviceKeys(
	ctx context.Context,
	passphrase string,
	owner domaintypes.UserID,
) (domaintypes.PublicKeyRecord, domaintypes.Fingerprint, error) {
	deviceKeys, ok, err := s.keystore.LoadDeviceKeys(passphrase)
	if err != nil {
		return domaintypes.PublicKeyRecord{}, "", err
	}
	if !ok {
		deviceKeys, err = s.generateDeviceKeys(passphrase)
		if err != nil {
			return domaintypes.PublicKeyRecord{}, "", err
		}
	}

	privateKeys, err := parseDeviceKeys(deviceKeys)
	if err != nil {
		return domaintypes.PublicKeyRecord{}, "", err
	}

	record, err := buildRecord(owner, privateKeys)
	if err != nil {
		return domaintypes.PublicKeyRecord{}, "", err
	}
	if err := s.directory.PublishRecord(ctx, record); err != nil {
		return domaintypes.PublicKeyRecord{}, "", fmt.Errorf("publish key record: %w", err)
	}
	return record, domaintypes.Fingerprint(crypto.Fingerprint(record.EncryptionKey)), nil
}

// PrivateKeys loads and parses the local private key material.
func (s *Service) PrivateKeys(passphrase string) (domaintypes.PrivateKeys, error) {
	deviceKeys, ok, err := s.keystore.LoadDeviceKeys(passphrase)
	if err != nil {
		return domaintypes.PrivateKeys{}, err
	}
	if !ok {
		return domaintypes.PrivateKeys{}, ErrKeysNotFound
	}
	return parseDeviceKeys(deviceKeys)
}

// LookupPublicKeys fetches a user's record from the directory.
func (s *Service) LookupPublicKeys(ctx context.Context, user domaintypes.UserID) (domaintypes.PublicKeyRecord, error) {
	record, ok, err := s.directory.FetchRecord(ctx, user)
	if err != nil {
		return domaintypes.PublicKeyRecord{}, fmt.Errorf("fetch key record for %q: %w", user, err)
	}
	if !ok {
		return domaintypes.PublicKeyRecord{}, fmt.Errorf("%w: %s", ErrUnknownRecipient, user)
	}
	return record, nil
}

// FingerprintDevice returns a short fingerprint of the local encryption
// public key.
func (s *Service) FingerprintDevice(passphrase string) (domaintypes.Fingerprint, error) {
	privateKeys, err := s.PrivateKeys(passphrase)
	if err != nil {
		return "", err
	}
	exported, err := crypto.ExportPublicKey(&privateKeys.Encryption.PublicKey, jwk.ForEncryption)
	if err != nil {
		return "", err
	}
	return domaintypes.Fingerprint(crypto.Fingerprint(exported)), nil
}

// generateDeviceKeys creates both RSA pairs and persists them sealed under
// the passphrase.
func (s *Service) generateDeviceKeys(passphrase string) (domaintypes.DeviceKeys, error) {
	encryptionKey, err := crypto.GenerateEncryptionKeyPair()
	if err != nil {
		return domaintypes.DeviceKeys{}, err
	}
	signingKey, err := crypto.GenerateSigningKeyPair()
	if err != nil {
		return domaintypes.DeviceKeys{}, err
	}

	encryptionDER, err := x509.MarshalPKCS8PrivateKey(encryptionKey)
	if err != nil {
		return domaintypes.DeviceKeys{}, fmt.Errorf("encode encryption key: %w", err)
	}
	signingDER, err := x509.MarshalPKCS8PrivateKey(signingKey)
	if err != nil {
		return domaintypes.DeviceKeys{}, fmt.Errorf("encode signing key: %w", err)
	}

	deviceKeys := domaintypes.DeviceKeys{
		EncryptionKey: encryptionDER,
		SigningKey:    signingDER,
		CreatedUTC:    time.Now().Unix(),
	}
	if err := s.keystore.SaveDeviceKeys(passphrase, deviceKeys); err != nil {
		return domaintypes.DeviceKeys{}, fmt.Errorf("save device keys: %w", err)
	}
	return deviceKeys, nil
}

// parseDeviceKeys decodes the PKCS#8 halves and wipes the DER afterwards.
func parseDeviceKeys(deviceKeys domaintypes.DeviceKeys) (domaintypes.PrivateKeys, error) {
	defer memzero.Zero(deviceKeys.EncryptionKey)
	defer memzero.Zero(deviceKeys.SigningKey)

	encryptionKey, err := parsePKCS8RSA(deviceKeys.EncryptionKey)
	if err != nil {
		return domaintypes.PrivateKeys{}, fmt.Errorf("decode encryption key: %w", err)
	}
	signingKey, err := parsePKCS8RSA(deviceKeys.SigningKey)
	if err != nil {
		return domaintypes.PrivateKeys{}, fmt.Errorf("decode signing key: %w", err)
	}
	return domaintypes.PrivateKeys{Encryption: encryptionKey, Signing: signingKey}, nil
}

func parsePKCS8RSA(der []byte) (*rsa.PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA private key: %T", parsed)
	}
	return key, nil
}

// buildRecord exports both public halves as JWKs.
func buildRecord(owner domaintypes.UserID, privateKeys domaintypes.PrivateKeys) (domaintypes.PublicKeyRecord, error) {
	encryptionJWK, err := crypto.ExportPublicKey(&privateKeys.Encryption.PublicKey, jwk.ForEncryption)
	if err != nil {
		return domaintypes.PublicKeyRecord{}, err
	}
	signingJWK, err := crypto.ExportPublicKey(&privateKeys.Signing.PublicKey, jwk.ForSignature)
	if err != nil {
		return domaintypes.PublicKeyRecord{}, err
	}
	return domaintypes.PublicKeyRecord{
		OwnerID:       owner,
		EncryptionKey: encryptionJWK,
		SigningKey:    signingJWK,
		UpdatedUTC:    time.Now().Unix(),
	}, nil
}

// Compile-time assertion that Service implements interfaces.KeyService.
var _ interfaces.KeyService = (*Service)(nil)
