package interfaces

import domaintypes "sealpost/internal/domain/types"

// Keystore is the local secret storage for device key material. It must be
// file- or hardware-backed and never reachable over the network.
type Keystore interface {
	SaveDeviceKeys(passphrase string, keys domaintypes.DeviceKeys) error

	// LoadDeviceKeys reports ok=false when the device was never
	// initialized; a wrong passphrase or corrupted blob is an error.
	LoadDeviceKeys(passphrase string) (keys domaintypes.DeviceKeys, ok bool, err error)
}
