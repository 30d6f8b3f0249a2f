package dpp

import "fmt"

// channelFreq converts an (operating class, channel) pair -- 802.11 Annex
// E's global operating classes -- to a center frequency in MHz. Coverage
// is limited to the bands DPP bootstrapping actually advertises; an
// unrecognized class reports an error that ParseURI folds into its single
// invalid-URI sentinel.
func channelFreq(opClass, channel int) (uint32, error) {
	switch {
	case opClass >= 81 && opClass <= 84:
		return freq24(channel)
	case opClass >= 115 && opClass <= 130:
		return freq5(channel)
	case opClass >= 131 && opClass <= 137:
		return freq6(channel)
	default:
		return 0, fmt.Errorf("dpp: unsupported operating class %d", opClass)
	}
}

func freq24(channel int) (uint32, error) {
	switch {
	case channel == 14:
		return 2484, nil
	case channel >= 1 && channel <= 13:
		return uint32(2407 + 5*channel), nil
	default:
		return 0, fmt.Errorf("dpp: channel %d out of range for 2.4 GHz", channel)
	}
}

func freq5(channel int) (uint32, error) {
	if channel < 1 || channel > 200 {
		return 0, fmt.Errorf("dpp: channel %d out of range for 5 GHz", channel)
	}
	return uint32(5000 + 5*channel), nil
}

func freq6(channel int) (uint32, error) {
	if channel < 1 || channel > 233 {
		return 0, fmt.Errorf("dpp: channel %d out of range for 6 GHz", channel)
	}
	return uint32(5950 + 5*channel), nil
}
