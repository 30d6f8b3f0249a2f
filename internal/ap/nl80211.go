package ap

import "golang.org/x/sys/unix"

// nl80211 commands and attributes used by this module, aliased from
// golang.org/x/sys/unix rather than hand-maintained locally -- those
// constants are generated straight from the kernel's linux/nl80211.h,
// which is exactly where the daemon this module is modeled on gets them.
const (
	cmdStartAP        = unix.NL80211_CMD_START_AP
	cmdStopAP         = unix.NL80211_CMD_STOP_AP
	cmdFrame          = unix.NL80211_CMD_FRAME
	cmdRegisterFrame  = unix.NL80211_CMD_REGISTER_FRAME

	attrIfindex             = unix.NL80211_ATTR_IFINDEX
	attrBeaconHead          = unix.NL80211_ATTR_BEACON_HEAD
	attrBeaconTail          = unix.NL80211_ATTR_BEACON_TAIL
	attrIE                  = unix.NL80211_ATTR_IE
	attrIEProbeResp         = unix.NL80211_ATTR_IE_PROBE_RESP
	attrIEAssocResp         = unix.NL80211_ATTR_IE_ASSOC_RESP
	attrBeaconInterval      = unix.NL80211_ATTR_BEACON_INTERVAL
	attrDTIMPeriod          = unix.NL80211_ATTR_DTIM_PERIOD
	attrSSID                = unix.NL80211_ATTR_SSID
	attrHiddenSSID          = unix.NL80211_ATTR_HIDDEN_SSID
	attrCipherSuitesPairwise = unix.NL80211_ATTR_CIPHER_SUITES_PAIRWISE
	attrWPAVersions         = unix.NL80211_ATTR_WPA_VERSIONS
	attrAKMSuites           = unix.NL80211_ATTR_AKM_SUITES
	attrAuthType            = unix.NL80211_ATTR_AUTH_TYPE
	attrWiphyFreq           = unix.NL80211_ATTR_WIPHY_FREQ
	attrChannelWidth        = unix.NL80211_ATTR_CHANNEL_WIDTH
	attrFrame               = unix.NL80211_ATTR_FRAME
	attrFrameType           = unix.NL80211_ATTR_FRAME_TYPE
	attrDontWaitForAck      = unix.NL80211_ATTR_DONT_WAIT_FOR_ACK

	hiddenSSIDNotInUse = unix.NL80211_HIDDEN_SSID_NOT_IN_USE
	wpaVersion2        = unix.NL80211_WPA_VERSION_2
	authTypeOpenSystem = unix.NL80211_AUTHTYPE_OPEN_SYSTEM
	chanWidth20         = unix.NL80211_CHAN_WIDTH_20
)

// RSN/nl80211 cipher and AKM suite selectors (OUI 00-0F-AC, see
// 802.11-2016 Table 9-133). Defined locally rather than pulled from unix
// because the bit-for-bit value, not a symbolic kernel name, is what the
// wire format and the RSN IE encoder both need.
const (
	suiteGroupNotAllowed uint32 = 0x000fac07
	suiteCCMP            uint32 = 0x000fac04
	suiteWEP40           uint32 = 0x000fac01
	suiteTKIP            uint32 = 0x000fac02
	suiteWEP104          uint32 = 0x000fac05
	suiteGCMP128         uint32 = 0x000fac08
	suiteGCMP256         uint32 = 0x000fac09
	suiteCCMP256         uint32 = 0x000fac0a
	akmSuitePSK          uint32 = 0x000fac02
)

const dtimPeriod uint32 = 3

// channelToFreq converts a 2.4 GHz channel number to its center frequency
// in MHz. Channels 1-13 follow the regular 5 MHz spacing from 2407 MHz;
// channel 14 (Japan only) is the one exception.
func channelToFreq(channel int) uint32 {
	if channel == 14 {
		return 2484
	}
	return uint32(2407 + 5*channel)
}
