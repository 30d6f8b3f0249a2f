package ap

import (
	"bytes"
	"errors"

	"github.com/lcalzada-xor/softapd/internal/core/domain"
	"github.com/lcalzada-xor/softapd/internal/ie"
)

// pairwiseCiphersFromBitmap walks ap.Ciphers in ascending bit position,
// returning the nl80211 OUI/type selector for every cipher the AP was
// configured with. Bit position is the RSN cipher suite type minus one,
// the inverse of the table github.com/lcalzada-xor/wmap's RSN IE parser
// uses to name cipher suites when decoding.
func pairwiseCiphersFromBitmap(bitmap uint16) []uint32 {
	table := []struct {
		bit   uint16
		suite uint32
	}{
		{domain.CipherWEP40, suiteWEP40},
		{domain.CipherTKIP, suiteTKIP},
		{domain.CipherCCMP, suiteCCMP},
		{domain.CipherWEP104, suiteWEP104},
		{domain.CipherGCMP128, suiteGCMP128},
		{domain.CipherGCMP256, suiteGCMP256},
		{domain.CipherCCMP256, suiteCCMP256},
	}

	var out []uint32
	for _, c := range table {
		if bitmap&c.bit != 0 {
			out = append(out, c.suite)
		}
	}
	return out
}

func writeLE16(buf *bytes.Buffer, v uint16) {
	buf.WriteByte(byte(v))
	buf.WriteByte(byte(v >> 8))
}

func writeSuite(buf *bytes.Buffer, suite uint32) {
	buf.WriteByte(byte(suite >> 24))
	buf.WriteByte(byte(suite >> 16))
	buf.WriteByte(byte(suite >> 8))
	buf.WriteByte(byte(suite))
}

// BuildRSNIE encodes the RSN information element (tag 48) for apState: a
// fixed "no group traffic allowed" group cipher, the pairwise ciphers from
// apState.Ciphers in ascending order, a single PSK AKM suite, and zero RSN
// capabilities. Returns an error (poisoning START_AP) if no pairwise
// cipher is configured or the encoded element would not fit in a u8
// length field.
func BuildRSNIE(apState *domain.AP) ([]byte, error) {
	pairwise := pairwiseCiphersFromBitmap(apState.Ciphers)
	if len(pairwise) == 0 {
		return nil, errors.New("ap: no pairwise cipher configured")
	}

	var body bytes.Buffer
	writeLE16(&body, 1) // RSN version 1
	writeSuite(&body, suiteGroupNotAllowed)

	writeLE16(&body, uint16(len(pairwise)))
	for _, suite := range pairwise {
		writeSuite(&body, suite)
	}

	writeLE16(&body, 1) // one AKM suite
	writeSuite(&body, akmSuitePSK)

	writeLE16(&body, 0) // RSN capabilities

	if body.Len() > 255 {
		return nil, errors.New("ap: rsn ie exceeds 255 bytes")
	}

	out := make([]byte, 0, 2+body.Len())
	out = append(out, ie.TagRSN, byte(body.Len()))
	out = append(out, body.Bytes()...)
	return out, nil
}
