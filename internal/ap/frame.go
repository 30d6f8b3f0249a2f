package ap

import (
	"bytes"
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/lcalzada-xor/softapd/internal/core/domain"
	"github.com/lcalzada-xor/softapd/internal/ie"
)

// capabilityInfo is ESS | Privacy (802.11-2016 9.4.1.4): this is a
// WPA2-PSK infrastructure BSS, never open, never IBSS. Short Preamble and
// Short Slot Time are deliberately left clear for maximum 2.4 GHz
// interoperability.
const capabilityInfo uint16 = 0x0011

// BuildBeaconPRHead emits the 802.11 MAC header and the Beacon/Probe
// Response body up to (and excluding) the TIM IE: timestamp, beacon
// interval, capability info, then the SSID, Supported Rates, and DSSS
// Parameter Set information elements. The kernel fills in the TIM IE
// itself; the RSN IE that follows it is built separately by BuildRSNIE.
func BuildBeaconPRHead(apState *domain.AP, subtype layers.Dot11Type, dest [6]byte) ([]byte, error) {
	dot11 := &layers.Dot11{
		Type:     subtype,
		Address1: net.HardwareAddr(dest[:]),
		Address2: net.HardwareAddr(apState.BSSID[:]),
		Address3: net.HardwareAddr(apState.BSSID[:]),
	}

	var mgmt gopacket.SerializableLayer
	switch subtype {
	case layers.Dot11TypeMgmtBeacon:
		mgmt = &layers.Dot11MgmtBeacon{Timestamp: 0, Interval: apState.BeaconInterval, Flags: capabilityInfo}
	case layers.Dot11TypeMgmtProbeResp:
		mgmt = &layers.Dot11MgmtProbeResp{Timestamp: 0, Interval: apState.BeaconInterval, Flags: capabilityInfo}
	default:
		return nil, fmt.Errorf("ap: unsupported beacon/probe-resp subtype %v", subtype)
	}

	ies := buildHeadIEs(apState)

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, dot11, mgmt, gopacket.Payload(ies)); err != nil {
		return nil, fmt.Errorf("ap: serialize beacon/probe-resp head: %w", err)
	}

	return buf.Bytes(), nil
}

// buildHeadIEs encodes the SSID, Supported Rates, and DSSS Parameter Set
// information elements, in that order.
func buildHeadIEs(apState *domain.AP) []byte {
	var buf bytes.Buffer

	ssid := []byte(apState.SSID)
	buf.WriteByte(ie.TagSSID)
	buf.WriteByte(byte(len(ssid)))
	buf.Write(ssid)

	rates := apState.Rates
	if len(rates) > 8 {
		rates = rates[:8]
	}
	buf.WriteByte(ie.TagSupportedRates)
	buf.WriteByte(byte(len(rates)))
	for i, r := range rates {
		b := byte(r)
		if i == 0 {
			b |= 0x80 // lowest rate is the Basic Rate
		}
		buf.WriteByte(b)
	}

	buf.WriteByte(ie.TagDSSSParameterSet)
	buf.WriteByte(1)
	buf.WriteByte(byte(apState.Channel))

	return buf.Bytes()
}

// BuildBeaconPRTail emits the Beacon/Probe Response portion after the TIM
// IE: the RSN information element only (no Country IE in this build).
func BuildBeaconPRTail(apState *domain.AP) ([]byte, error) {
	return BuildRSNIE(apState)
}
