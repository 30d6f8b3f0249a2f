// Package ie implements the tag-length-value iteration used by the
// probe-request classifier, and the tag numbers shared with the frame
// builder and the RSN encoder.
package ie

// Tag numbers used by the AP core. Only the tags this module builds or
// inspects are named; the rest of the 802.11 IE space is irrelevant here.
const (
	TagSSID               = 0
	TagSupportedRates     = 1
	TagDSSSParameterSet   = 3
	TagSSIDList           = 84
	TagRSN                = 48
)

// IterateIEs walks a sequence of tag-length-value information elements,
// invoking fn for every well-formed element. Iteration stops as soon as an
// element's declared length would run past the end of data, or fn returns
// false.
func IterateIEs(data []byte, fn func(tag int, value []byte) bool) {
	offset := 0
	limit := len(data)

	for offset+2 <= limit {
		tag := int(data[offset])
		length := int(data[offset+1])
		start := offset + 2

		if start+length > limit {
			return
		}

		if !fn(tag, data[start:start+length]) {
			return
		}

		offset = start + length
	}
}

// FindIE returns the value of the first element with the given tag.
func FindIE(data []byte, tag int) ([]byte, bool) {
	var value []byte
	found := false
	IterateIEs(data, func(id int, v []byte) bool {
		if id != tag {
			return true
		}
		value = v
		found = true
		return false
	})
	return value, found
}
