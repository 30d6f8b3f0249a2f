package ap

import (
	"testing"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcalzada-xor/softapd/internal/core/domain"
	"github.com/lcalzada-xor/softapd/internal/ie"
)

func testAP() *domain.AP {
	return &domain.AP{
		DeviceID:       "wlan0",
		BSSID:          [6]byte{0x02, 0x00, 0x00, 0x00, 0x01, 0x00},
		SSID:           "MyAP",
		Channel:        6,
		BeaconInterval: 100,
		Rates:          []int{2, 11, 22},
		Ciphers:        domain.CipherCCMP,
	}
}

func TestBuildBeaconPRHead_FixedFields(t *testing.T) {
	apState := testAP()
	bcast := [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

	head, err := BuildBeaconPRHead(apState, layers.Dot11TypeMgmtBeacon, bcast)
	require.NoError(t, err)
	require.True(t, len(head) >= 36)

	// MAC header: addr1 = dest, addr2 = addr3 = BSSID.
	assert.Equal(t, bcast[:], head[4:10])
	assert.Equal(t, apState.BSSID[:], head[10:16])
	assert.Equal(t, apState.BSSID[:], head[16:22])

	interval := uint16(head[32]) | uint16(head[33])<<8
	assert.Equal(t, apState.BeaconInterval, interval)

	capability := uint16(head[34]) | uint16(head[35])<<8
	assert.Equal(t, capabilityInfo, capability)
}

func TestBuildBeaconPRHead_InformationElements(t *testing.T) {
	apState := testAP()
	bcast := [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

	head, err := BuildBeaconPRHead(apState, layers.Dot11TypeMgmtBeacon, bcast)
	require.NoError(t, err)

	var ssid, rates, dsss []byte
	var haveSSID, haveRates, haveDSSS bool
	ie.IterateIEs(head[36:], func(tag int, value []byte) bool {
		switch tag {
		case ie.TagSSID:
			ssid, haveSSID = value, true
		case ie.TagSupportedRates:
			rates, haveRates = value, true
		case ie.TagDSSSParameterSet:
			dsss, haveDSSS = value, true
		}
		return true
	})

	require.True(t, haveSSID)
	require.True(t, haveRates)
	require.True(t, haveDSSS)

	assert.Equal(t, apState.SSID, string(ssid))

	require.Len(t, rates, len(apState.Rates))
	assert.Equal(t, byte(apState.Rates[0])|0x80, rates[0], "lowest rate must carry the Basic Rate flag")
	for i := 1; i < len(rates); i++ {
		assert.Equal(t, byte(apState.Rates[i]), rates[i])
	}

	require.Len(t, dsss, 1)
	assert.Equal(t, byte(apState.Channel), dsss[0])
}

func TestBuildBeaconPRHead_RateCap(t *testing.T) {
	apState := testAP()
	apState.Rates = []int{2, 4, 11, 12, 18, 22, 24, 36, 48, 54}
	bcast := [6]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

	head, err := BuildBeaconPRHead(apState, layers.Dot11TypeMgmtBeacon, bcast)
	require.NoError(t, err)

	rates, ok := ie.FindIE(head[36:], ie.TagSupportedRates)
	require.True(t, ok)
	assert.Len(t, rates, 8, "at most 8 rates may be carried in the Supported Rates IE")
}

func TestBuildRSNIE(t *testing.T) {
	apState := testAP()
	apState.Ciphers = domain.CipherTKIP | domain.CipherCCMP

	rsne, err := BuildRSNIE(apState)
	require.NoError(t, err)
	require.True(t, len(rsne) >= 2)

	assert.Equal(t, byte(ie.TagRSN), rsne[0])
	assert.Equal(t, byte(len(rsne)-2), rsne[1])

	body := rsne[2:]
	version := uint16(body[0]) | uint16(body[1])<<8
	assert.Equal(t, uint16(1), version)

	groupCipher := body[2:6]
	assert.Equal(t, []byte{0x00, 0x0f, 0xac, 0x07}, groupCipher)

	pairwiseCount := uint16(body[6]) | uint16(body[7])<<8
	require.Equal(t, uint16(2), pairwiseCount)

	// Ascending bit-position order: TKIP (type 2) before CCMP (type 4).
	assert.Equal(t, []byte{0x00, 0x0f, 0xac, 0x02}, body[8:12])
	assert.Equal(t, []byte{0x00, 0x0f, 0xac, 0x04}, body[12:16])

	akmCount := uint16(body[16]) | uint16(body[17])<<8
	require.Equal(t, uint16(1), akmCount)
	assert.Equal(t, []byte{0x00, 0x0f, 0xac, 0x02}, body[18:22])

	capabilities := uint16(body[22]) | uint16(body[23])<<8
	assert.Equal(t, uint16(0), capabilities)
}

func TestBuildRSNIE_NoCipherFails(t *testing.T) {
	apState := testAP()
	apState.Ciphers = 0

	_, err := BuildRSNIE(apState)
	assert.Error(t, err)
}
