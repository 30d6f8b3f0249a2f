// Package ports defines the narrow interfaces between the AP control core
// and the things that drive it: the process entrypoint on one side, the
// generic-netlink transport on the other.
package ports

import "github.com/lcalzada-xor/softapd/internal/core/domain"

// APController is the external-facing lifecycle surface for a soft AP.
// *ap.Module satisfies it; cmd/softapd calls the *ap.Module directly.
type APController interface {
	// Start brings up a BSS on device (interface name + index), returning
	// synchronously once the kernel command has been submitted. cb later
	// receives exactly one terminal event per successful Start.
	Start(deviceID string, ifindex uint32, bssid [6]byte, ssid, psk string, channel int, beaconInterval uint16, cb domain.EventCallback) error

	// Stop tears down the BSS bound to deviceID.
	Stop(deviceID string) error
}
