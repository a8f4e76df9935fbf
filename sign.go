package jose

import (
	"encoding/json"
	"time"

	"github.com/effective-security/xlog"

	"github.com/axtl/jose/metricskey"
)

// Sign produces a JWS over the claims. The default algorithm is HS256; see
// WithAlgorithm and WithHeader.
func (e *Engine) Sign(claims Claims, key any, opts ...CallOption) (*JWS, error) {
	req := newRequest(opts...)
	if req.alg == "" {
		req.alg = DefaultSignatureAlgorithm
	}
	defer metricskey.PerfJoseOperation.MeasureSince(time.Now(), req.alg, "sign")

	sigAlg, err := e.registry.SignatureAlgorithm(req.alg)
	if err != nil {
		return nil, err
	}

	header := Header{HeaderAlgorithm: req.alg}
	if req.header != nil {
		header.Merge(req.header)
		header[HeaderAlgorithm] = req.alg
	}

	headerJSON, err := header.Marshal()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "failed to encode claims")
	}

	t := &JWS{
		Header:         headerJSON,
		Payload:        payload,
		protected:      EncodeSegment(headerJSON),
		encodedPayload: EncodeSegment(payload),
	}
	t.Signature, err = sigAlg.Sign(e.rand, t.SigningInput(), key)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Verify checks the JWS signature and returns the parsed header and claims.
// The claims are validated against the engine clock.
func (e *Engine) Verify(t *JWS, key any) (*JWT, error) {
	header, err := parseHeader(t.Header)
	if err != nil {
		return nil, err
	}
	logger.KV(xlog.TRACE, "alg", header.Algorithm())
	defer metricskey.PerfJoseOperation.MeasureSince(time.Now(), header.Algorithm(), "verify")

	sigAlg, err := e.registry.SignatureAlgorithm(header.Algorithm())
	if err != nil {
		return nil, err
	}

	if err := sigAlg.Verify(t.SigningInput(), t.Signature, key); err != nil {
		return nil, err
	}

	claims, err := parseClaims(t.Payload)
	if err != nil {
		return nil, err
	}
	if err := claims.ValidAt(e.now()); err != nil {
		return nil, err
	}

	return &JWT{Header: header, Claims: claims}, nil
}

// VerifyCompact deserializes a compact token and verifies it.
func (e *Engine) VerifyCompact(token string, key any) (*JWT, error) {
	t, err := DeserializeCompact(token)
	if err != nil {
		return nil, err
	}
	jws, ok := t.(*JWS)
	if !ok {
		return nil, newError(InvalidInput, "token is not a JWS")
	}
	return e.Verify(jws, key)
}

// Sign produces a JWS using the default Engine.
func Sign(claims Claims, key any, opts ...CallOption) (*JWS, error) {
	return defaultEngine.Sign(claims, key, opts...)
}

// Verify consumes a JWS using the default Engine.
func Verify(t *JWS, key any) (*JWT, error) {
	return defaultEngine.Verify(t, key)
}
