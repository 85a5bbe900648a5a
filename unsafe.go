//go:build go1.20

package objcodec

import (
	"unsafe"
)

// bytesToReadOnlyString views b as a string without copying.
//
// SAFETY REQUIREMENTS:
// - b MUST NOT be modified while the returned string is in use
// - decoders only keep substrings of it transiently; every string they
//   store into a decoded value is cloned first (see UnescapeJSON/UnescapeXML)
func bytesToReadOnlyString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// stringToReadOnlyBytes is the inverse view, used by the binary
// serializers' DeserializeString. The returned slice MUST NOT be modified.
func stringToReadOnlyBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
