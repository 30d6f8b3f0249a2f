package ap

import (
	"fmt"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"

	"github.com/lcalzada-xor/softapd/internal/core/domain"
)

// probeRequestFrameType is the 802.11 frame-control (type<<2)|(subtype<<4)
// value for a Probe Request (type 0 management, subtype 4), the only frame
// type this module subscribes to via NL80211_CMD_REGISTER_FRAME.
const probeRequestFrameType uint16 = 0x0040

func newAttrEncoder() *netlink.AttributeEncoder {
	return netlink.NewAttributeEncoder()
}

// buildStartAPAttrs encodes the NL80211_CMD_START_AP attribute set: beacon
// head/tail, per-frame-type extra IEs, timing, SSID visibility, and the
// RSN/WPA security parameters. head and tail are the outputs of
// BuildBeaconPRHead/BuildBeaconPRTail; extraIE is the RSN element alone,
// reused verbatim for NL80211_ATTR_IE_PROBE_RESP and
// NL80211_ATTR_IE_ASSOC_RESP since this build advertises the same RSN in
// all three frame types.
func buildStartAPAttrs(apState *domain.AP, head, tail, extraIE []byte) ([]byte, error) {
	ae := newAttrEncoder()
	ae.Uint32(attrIfindex, apState.Ifindex)
	ae.Bytes(attrBeaconHead, head)
	ae.Bytes(attrBeaconTail, tail)
	ae.Bytes(attrIE, extraIE)
	ae.Bytes(attrIEProbeResp, extraIE)
	ae.Bytes(attrIEAssocResp, extraIE)
	ae.Uint32(attrBeaconInterval, uint32(apState.BeaconInterval))
	ae.Uint32(attrDTIMPeriod, dtimPeriod)
	ae.Bytes(attrSSID, []byte(apState.SSID))
	ae.Uint32(attrHiddenSSID, hiddenSSIDNotInUse)

	pairwise := pairwiseCiphersFromBitmap(apState.Ciphers)
	if len(pairwise) == 0 {
		return nil, fmt.Errorf("ap: no pairwise cipher configured")
	}
	for _, suite := range pairwise {
		ae.Uint32(attrCipherSuitesPairwise, suite)
	}
	ae.Uint32(attrWPAVersions, wpaVersion2)
	ae.Uint32(attrAKMSuites, akmSuitePSK)
	ae.Uint32(attrAuthType, authTypeOpenSystem)
	ae.Uint32(attrWiphyFreq, channelToFreq(apState.Channel))
	ae.Uint32(attrChannelWidth, chanWidth20)

	return ae.Encode()
}

func buildStopAPAttrs(ifindex uint32) ([]byte, error) {
	ae := newAttrEncoder()
	ae.Uint32(attrIfindex, ifindex)
	return ae.Encode()
}

// buildProbeRespAttrs encodes the NL80211_CMD_FRAME attributes needed to
// transmit a Probe Response built from BuildBeaconPRHead/BuildBeaconPRTail.
func buildProbeRespAttrs(apState *domain.AP, frame []byte) ([]byte, error) {
	ae := newAttrEncoder()
	ae.Uint32(attrIfindex, apState.Ifindex)
	ae.Uint32(attrWiphyFreq, channelToFreq(apState.Channel))
	ae.Bytes(attrFrame, frame)
	ae.Flag(attrDontWaitForAck, true)
	return ae.Encode()
}

// parseFrameNotification extracts a Frame from an NL80211_CMD_FRAME
// multicast notification. It reports false for any other command, for a
// frame type this module did not subscribe to, or for a frame too short to
// contain a full MAC header.
func parseFrameNotification(msg genetlink.Message) (*Frame, bool) {
	if msg.Header.Command != cmdFrame {
		return nil, false
	}

	ad, err := netlink.NewAttributeDecoder(msg.Data)
	if err != nil {
		return nil, false
	}

	var raw []byte
	var ifindex uint32
	for ad.Next() {
		switch ad.Type() {
		case attrFrame:
			raw = ad.Bytes()
		case attrIfindex:
			ifindex = ad.Uint32()
		}
	}
	if ad.Err() != nil || len(raw) < 24 {
		return nil, false
	}

	fc := uint16(raw[0]) | uint16(raw[1])<<8
	if fc&0xfcff != probeRequestFrameType {
		return nil, false
	}

	var f Frame
	f.Ifindex = ifindex
	copy(f.Addr1[:], raw[4:10])
	copy(f.Addr2[:], raw[10:16])
	copy(f.Addr3[:], raw[16:22])
	f.Body = raw[24:]
	return &f, true
}
