package jose

import (
	"encoding/base64"
	"strings"
)

// EncodeSegment returns JOSE specific base64url encoding with padding stripped.
func EncodeSegment(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}

// EncodeSegmentString returns the base64url encoding of the UTF-8 bytes of s.
func EncodeSegmentString(s string) string {
	return EncodeSegment([]byte(s))
}

// DecodeSegment decodes a base64url segment. Padded input is tolerated,
// the padding is stripped before decoding.
func DecodeSegment(seg string) ([]byte, error) {
	seg = strings.TrimRight(seg, "=")
	b, err := base64.RawURLEncoding.DecodeString(seg)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "invalid base64url segment")
	}
	return b, nil
}
