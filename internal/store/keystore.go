package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"sealpost/internal/domain/interfaces"
	domaintypes "sealpost/internal/domain/types"
)

const deviceKeysFile = "device_keys.enc"

// FileKeystore stores device key material on disk, sealed under a
// passphrase-derived key.
type FileKeystore struct {
	dir string
	mu  sync.Mutex
}

// NewFileKeystore returns a keystore rooted at dir. The directory must
// already exist.
func NewFileKeystore(dir string) *FileKeystore { return &FileKeystore{dir: dir} }

// SaveDeviceKeys seals and writes the device key material.
func (s *FileKeystore) SaveDeviceKeys(passphrase string, keys domaintypes.DeviceKeys) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	N, r, p := scryptParamsDefault()
	blob, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, deviceKeysFile), blob, 0o600)
}

// LoadDeviceKeys reads and opens the device key blob. A missing file means
// the device was never initialized and reports ok=false; a wrong passphrase
// is an error.
func (s *FileKeystore) LoadDeviceKeys(passphrase string) (domaintypes.DeviceKeys, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := readFile(filepath.Join(s.dir, deviceKeysFile))
	if err != nil {
		return domaintypes.DeviceKeys{}, false, err
	}
	if blob == nil {
		return domaintypes.DeviceKeys{}, false, nil
	}
	raw, err := decrypt(passphrase, blob)
	if err != nil {
		return domaintypes.DeviceKeys{}, false, err
	}
	var keys domaintypes.DeviceKeys
	if err := json.Unmarshal(raw, &keys); err != nil {
		return domaintypes.DeviceKeys{}, false, fmt.Errorf("decode device keys: %w", err)
	}
	return keys, true, nil
}

// Compile-time assertion that FileKeystore implements interfaces.Keystore.
var _ interfaces.Keystore = (*FileKeystore)(nil)
