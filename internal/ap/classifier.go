package ap

import (
	"github.com/lcalzada-xor/softapd/internal/core/domain"
	"github.com/lcalzada-xor/softapd/internal/ie"
)

// ProbeRequest is the parsed addressing and IE body of a received Probe
// Request management frame.
type ProbeRequest struct {
	Addr1 [6]byte // destination
	Addr2 [6]byte // source -- the station to reply to
	Addr3 [6]byte // BSSID field
	IEs   []byte
}

var broadcastAddr = [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

func isBroadcast(addr [6]byte) bool {
	return addr == broadcastAddr
}

// ShouldRespond implements the Probe Request match/no-match decision from
// 802.11-2016 11.1.4.3.2: address1 and address3 must each be the AP's
// BSSID or broadcast; the SSID must be wildcard, an exact match, or present
// in an SSID List; and a present DSSS Parameter Set must name the AP's
// channel. A malformed DSSS element (wrong length) or a malformed SSID
// List (a non-SSID tag inside it) drops the frame with no reply, the same
// outward effect as no-match. On match it returns the destination address
// for the Probe Response: the requester's address2.
func ShouldRespond(apState *domain.AP, req *ProbeRequest) (respond bool, dest [6]byte) {
	match := true

	if req.Addr1 != apState.BSSID && !isBroadcast(req.Addr1) {
		match = false
	}
	if req.Addr3 != apState.BSSID && !isBroadcast(req.Addr3) {
		match = false
	}

	var ssid []byte
	ssidPresent := false
	var ssidList []byte
	ssidListPresent := false
	dsssChannel := -1
	malformed := false

	ie.IterateIEs(req.IEs, func(tag int, value []byte) bool {
		switch tag {
		case ie.TagSSID:
			ssid = value
			ssidPresent = true
		case ie.TagSSIDList:
			ssidList = value
			ssidListPresent = true
		case ie.TagDSSSParameterSet:
			if len(value) != 1 {
				malformed = true
				return false
			}
			dsssChannel = int(value[0])
		}
		return true
	})
	if malformed {
		return false, dest
	}

	switch {
	case !ssidPresent || len(ssid) == 0:
		// Wildcard SSID: no effect on match.
	case string(ssid) == apState.SSID:
		// Exact SSID match: no effect on match.
	case ssidListPresent:
		found := false
		ie.IterateIEs(ssidList, func(tag int, value []byte) bool {
			if tag != ie.TagSSID {
				malformed = true
				return false
			}
			if string(value) == apState.SSID {
				found = true
				return false
			}
			return true
		})
		if malformed {
			return false, dest
		}
		if !found {
			match = false
		}
	default:
		match = false
	}

	if dsssChannel != -1 && dsssChannel != apState.Channel {
		match = false
	}

	if !match {
		return false, dest
	}
	return true, req.Addr2
}
