package store_test

import (
	"errors"
	"testing"

	domaintypes "sealpost/internal/domain/types"
	"sealpost/internal/store"
)

func TestDeviceKeys_SaveLoad_OK(t *testing.T) {
	home := t.TempDir()
	pass := "pass"

	ks := store.NewFileKeystore(home)

	keys := domaintypes.DeviceKeys{
		EncryptionKey: []byte{1, 2, 3},
		SigningKey:    []byte{4, 5, 6},
		CreatedUTC:    42,
	}
	if err := ks.SaveDeviceKeys(pass, keys); err != nil {
		t.Fatalf("save device keys: %v", err)
	}

	got, ok, err := ks.LoadDeviceKeys(pass)
	if err != nil {
		t.Fatalf("load device keys: %v", err)
	}
	if !ok {
		t.Fatal("expected keys to exist")
	}
	if string(got.EncryptionKey) != string(keys.EncryptionKey) || got.CreatedUTC != keys.CreatedUTC {
		t.Fatal("mismatch after load")
	}
}

func TestDeviceKeys_Load_NotInitialized(t *testing.T) {
	ks := store.NewFileKeystore(t.TempDir())

	_, ok, err := ks.LoadDeviceKeys("pass")
	if err != nil {
		t.Fatalf("load device keys: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for uninitialized device")
	}
}

func TestDeviceKeys_WrongPassphrase(t *testing.T) {
	ks := store.NewFileKeystore(t.TempDir())

	if err := ks.SaveDeviceKeys("correct", domaintypes.DeviceKeys{EncryptionKey: []byte{1}}); err != nil {
		t.Fatalf("save device keys: %v", err)
	}

	_, _, err := ks.LoadDeviceKeys("wrong")
	if !errors.Is(err, store.ErrWrongPassphrase) {
		t.Fatalf("want ErrWrongPassphrase, got %v", err)
	}
}
