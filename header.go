package jose

import (
	"encoding/json"
)

// Registered header parameter names consumed by this package.
const (
	HeaderAlgorithm   = "alg"
	HeaderEncryption  = "enc"
	HeaderCompression = "zip"
	HeaderKeyID       = "kid"
	HeaderType        = "typ"
)

// Header is the protected token header: reserved keys plus any
// caller-supplied extra keys, preserved verbatim.
type Header map[string]any

// Algorithm returns the "alg" value, or an empty string.
func (h Header) Algorithm() string {
	return h.str(HeaderAlgorithm)
}

// Encryption returns the "enc" value, or an empty string.
func (h Header) Encryption() string {
	return h.str(HeaderEncryption)
}

// Compression returns the "zip" value, or an empty string.
func (h Header) Compression() string {
	return h.str(HeaderCompression)
}

// KeyID returns the "kid" value, or an empty string.
func (h Header) KeyID() string {
	return h.str(HeaderKeyID)
}

func (h Header) str(name string) string {
	if v, ok := h[name].(string); ok {
		return v
	}
	return ""
}

// Merge copies all keys from extra into the header, overwriting on conflict.
func (h Header) Merge(extra Header) {
	for k, v := range extra {
		h[k] = v
	}
}

// Marshal returns the canonical JSON encoding of the header.
func (h Header) Marshal() ([]byte, error) {
	raw, err := json.Marshal(h)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "failed to encode header")
	}
	return raw, nil
}

func parseHeader(raw []byte) (Header, error) {
	var h Header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, wrapError(MalformedToken, err, "Malformed JWT")
	}
	return h, nil
}
