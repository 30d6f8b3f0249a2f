package dpp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bootKeyB64 = "MDkwEwYHKoZIzj0CAQYIKoZIzj0DAQcDIgADURzxmttZoIRIPWGoQMV00XHWCAQIhXruVWOz0NjlkIA="

func TestParseURI_AllValues(t *testing.T) {
	uri := "DPP:C:81/1,115/36;I:SN=4774LH2b4044;M:5254005828e5;V:2;K:" + bootKeyB64 + ";;"

	info, err := ParseURI(uri)
	require.NoError(t, err)
	require.NotNil(t, info.BootPublic)

	assert.Equal(t, [6]byte{0x52, 0x54, 0x00, 0x58, 0x28, 0xe5}, info.MAC)
	assert.True(t, info.HasMAC)
	assert.Equal(t, 2, info.Version)
	assert.Contains(t, info.Freqs, uint32(2412))
	assert.Contains(t, info.Freqs, uint32(5180))
}

func TestParseURI_Failures(t *testing.T) {
	cases := map[string]string{
		"no_type":             "C:81/1;K:shouldnotmatter;;",
		"empty":               "DPP:",
		"no_key":              "DPP:C:81/1,115/36;I:SN=4774LH2b4044;M:5254005828e5;V:2;;",
		"data_after_terminator": "DPP:K:" + bootKeyB64 + ";;C:81/1;;",
		"single_terminator":   "DPP:K:" + bootKeyB64 + ";",
		"no_terminator":       "DPP:K:" + bootKeyB64,
		"bad_key":             "DPP:K:MDkwEwYHKoZIzj0CAQYIKoZIzj0DAQcDIgADURzxmttZoIRIPWGoQMV00XHWCAQIhXruVWOz0;;",
		"unexpected_id":       "DPP:Z:somedata;K:" + bootKeyB64 + ";;",
	}

	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseURI(uri)
			assert.ErrorIs(t, err, ErrInvalidURI)
		})
	}
}

func TestParseURI_BadChannels(t *testing.T) {
	cases := map[string]string{
		"empty_value":        "DPP:C:;K:" + bootKeyB64 + ";;",
		"missing_slash":      "DPP:C:81;K:" + bootKeyB64 + ";;",
		"missing_channel":    "DPP:C:81/;K:" + bootKeyB64 + ";;",
		"trailing_comma":     "DPP:C:81/1,;K:" + bootKeyB64 + ";;",
		"second_missing_chan": "DPP:C:81/1,81/;K:" + bootKeyB64 + ";;",
		"empty_second_entry": "DPP:C:81/1,/;K:" + bootKeyB64 + ";;",
	}

	for name, uri := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseURI(uri)
			assert.ErrorIs(t, err, ErrInvalidURI)
		})
	}
}
