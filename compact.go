package jose

import (
	"strings"
)

// Token is a JOSE message in one of the compact serializations.
type Token interface {
	// Serialize returns the dot-joined compact serialization.
	Serialize() string
}

// JWE is an encrypted token. All fields hold raw (decoded) bytes; the
// base64url header segment exactly as transmitted is retained internally
// because it is part of the authenticated data.
type JWE struct {
	Header       []byte
	EncryptedKey []byte
	IV           []byte
	Ciphertext   []byte
	Tag          []byte

	protected string
}

// ProtectedSegment returns the base64url header segment as transmitted,
// or the canonical encoding of Header for messages built locally.
func (t *JWE) ProtectedSegment() string {
	if t.protected != "" {
		return t.protected
	}
	return EncodeSegment(t.Header)
}

// Serialize implements Token. Segment order is
// header.wrapped_cek.iv.ciphertext.tag.
func (t *JWE) Serialize() string {
	return strings.Join([]string{
		t.ProtectedSegment(),
		EncodeSegment(t.EncryptedKey),
		EncodeSegment(t.IV),
		EncodeSegment(t.Ciphertext),
		EncodeSegment(t.Tag),
	}, ".")
}

// JWS is a signed token. Payload holds the raw encoded claims bytes; the
// transmitted header and payload segments are retained internally because
// the signature covers them byte for byte.
type JWS struct {
	Header    []byte
	Payload   []byte
	Signature []byte

	protected      string
	encodedPayload string
}

// ProtectedSegment returns the base64url header segment as transmitted,
// or the canonical encoding of Header for messages built locally.
func (t *JWS) ProtectedSegment() string {
	if t.protected != "" {
		return t.protected
	}
	return EncodeSegment(t.Header)
}

// PayloadSegment returns the base64url payload segment as transmitted,
// or the canonical encoding of Payload for messages built locally.
func (t *JWS) PayloadSegment() string {
	if t.encodedPayload != "" {
		return t.encodedPayload
	}
	return EncodeSegment(t.Payload)
}

// SigningInput returns the exact bytes covered by the signature:
// encoded header, a dot, and the encoded payload.
func (t *JWS) SigningInput() []byte {
	return []byte(t.ProtectedSegment() + "." + t.PayloadSegment())
}

// Serialize implements Token. Segment order is header.payload.signature.
func (t *JWS) Serialize() string {
	return strings.Join([]string{
		t.ProtectedSegment(),
		t.PayloadSegment(),
		EncodeSegment(t.Signature),
	}, ".")
}

// SerializeCompact returns the compact serialization of the token.
func SerializeCompact(t Token) string {
	return t.Serialize()
}

// DeserializeCompact parses a compact token: 5 segments yield a *JWE,
// 3 segments a *JWS, any other count is malformed. Segments are decoded
// individually and returned un-interpreted; the header is not parsed here
// so that the transmitted bytes remain available for authentication.
func DeserializeCompact(token string) (Token, error) {
	parts := strings.Split(token, ".")
	switch len(parts) {
	case 5:
		segs, err := decodeSegments(parts)
		if err != nil {
			return nil, err
		}
		return &JWE{
			Header:       segs[0],
			EncryptedKey: segs[1],
			IV:           segs[2],
			Ciphertext:   segs[3],
			Tag:          segs[4],
			protected:    parts[0],
		}, nil
	case 3:
		segs, err := decodeSegments(parts)
		if err != nil {
			return nil, err
		}
		return &JWS{
			Header:         segs[0],
			Payload:        segs[1],
			Signature:      segs[2],
			protected:      parts[0],
			encodedPayload: parts[1],
		}, nil
	default:
		return nil, newError(MalformedToken, "Malformed JWT")
	}
}

func decodeSegments(parts []string) ([][]byte, error) {
	segs := make([][]byte, len(parts))
	for i, p := range parts {
		b, err := DecodeSegment(p)
		if err != nil {
			return nil, wrapError(MalformedToken, err, "Malformed JWT")
		}
		segs[i] = b
	}
	return segs, nil
}
