package ie

import "testing"

func TestIterateIEs(t *testing.T) {
	data := []byte{
		TagSSID, 4, 'T', 'e', 's', 't',
		TagDSSSParameterSet, 1, 6,
	}

	var tags []int
	IterateIEs(data, func(tag int, value []byte) bool {
		tags = append(tags, tag)
		return true
	})

	if len(tags) != 2 || tags[0] != TagSSID || tags[1] != TagDSSSParameterSet {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestIterateIEsTruncated(t *testing.T) {
	data := []byte{TagSSID, 10, 'a', 'b'} // declares length 10 but only 2 bytes follow

	called := false
	IterateIEs(data, func(tag int, value []byte) bool {
		called = true
		return true
	})

	if called {
		t.Fatal("expected truncated IE to be dropped, not delivered")
	}
}

func TestIterateIEsEarlyStop(t *testing.T) {
	data := []byte{
		TagSSID, 1, 'a',
		TagDSSSParameterSet, 1, 6,
	}

	var seen []int
	IterateIEs(data, func(tag int, value []byte) bool {
		seen = append(seen, tag)
		return false
	})

	if len(seen) != 1 {
		t.Fatalf("expected iteration to stop after first element, got %v", seen)
	}
}

func TestFindIE(t *testing.T) {
	data := []byte{
		TagSSID, 3, 'f', 'o', 'o',
		TagDSSSParameterSet, 1, 11,
	}

	val, ok := FindIE(data, TagDSSSParameterSet)
	if !ok || len(val) != 1 || val[0] != 11 {
		t.Fatalf("FindIE returned %v, %v", val, ok)
	}

	_, ok = FindIE(data, TagSSIDList)
	if ok {
		t.Fatal("expected TagSSIDList to be absent")
	}
}
