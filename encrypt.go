package jose

import (
	"encoding/json"
	"io"
	"time"

	"github.com/effective-security/xlog"

	"github.com/axtl/jose/metricskey"
)

// JWT is the result of consuming a token: the parsed header and claims.
type JWT struct {
	Header Header
	Claims Claims
}

// Encrypt produces a JWE carrying the claims, encrypted to the recipient
// public key. Defaults are alg=RSA-OAEP and enc=A128CBC-HS256; see
// WithAlgorithm, WithEncryption, WithHeader, WithAdata and WithCompression.
func (e *Engine) Encrypt(claims Claims, key any, opts ...CallOption) (*JWE, error) {
	req := newRequest(opts...)
	if req.alg == "" {
		req.alg = DefaultKeyManagementAlgorithm
	}
	if req.enc == "" {
		req.enc = DefaultContentEncryption
	}
	defer metricskey.PerfJoseOperation.MeasureSince(time.Now(), req.alg, "encrypt")

	// an unsupported compression value fails before any key material
	// is generated
	if req.compression != "" {
		if err := checkCompression(req.compression); err != nil {
			return nil, err
		}
	}

	kmAlg, err := e.registry.KeyManagementAlgorithm(req.alg)
	if err != nil {
		return nil, err
	}
	encAlg, err := e.registry.ContentEncryption(req.enc)
	if err != nil {
		return nil, err
	}

	header := Header{
		HeaderAlgorithm:  req.alg,
		HeaderEncryption: req.enc,
	}
	if req.header != nil {
		header.Merge(req.header)
		header[HeaderAlgorithm] = req.alg
		header[HeaderEncryption] = req.enc
	}
	if req.compression != "" {
		header[HeaderCompression] = req.compression
	}

	plaintext, err := json.Marshal(claims)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "failed to encode claims")
	}
	if req.compression != "" {
		plaintext, err = deflateCompress(plaintext)
		if err != nil {
			return nil, err
		}
	}

	cek := make([]byte, encAlg.KeySize())
	if _, err := io.ReadFull(e.rand, cek); err != nil {
		return nil, wrapError(InvalidInput, err, "failed to generate content encryption key")
	}

	wrapped, err := kmAlg.Wrap(e.rand, cek, key)
	if err != nil {
		return nil, err
	}

	headerJSON, err := header.Marshal()
	if err != nil {
		return nil, err
	}
	protected := EncodeSegment(headerJSON)

	iv, ciphertext, tag, err := encAlg.Encrypt(e.rand, plaintext, cek, buildAAD(protected, req.adata))
	if err != nil {
		return nil, err
	}

	return &JWE{
		Header:       headerJSON,
		EncryptedKey: wrapped,
		IV:           iv,
		Ciphertext:   ciphertext,
		Tag:          tag,
		protected:    protected,
	}, nil
}

// Decrypt consumes a JWE with the recipient private key and returns the
// parsed header and claims. The claims are validated against the engine
// clock. When the token was encrypted with adata, the identical value must
// be supplied via WithAdata.
func (e *Engine) Decrypt(t *JWE, key any, opts ...CallOption) (*JWT, error) {
	req := newRequest(opts...)

	header, err := parseHeader(t.Header)
	if err != nil {
		return nil, err
	}
	logger.KV(xlog.TRACE, "alg", header.Algorithm(), "enc", header.Encryption())
	defer metricskey.PerfJoseOperation.MeasureSince(time.Now(), header.Algorithm(), "decrypt")

	kmAlg, err := e.registry.KeyManagementAlgorithm(header.Algorithm())
	if err != nil {
		return nil, err
	}
	encAlg, err := e.registry.ContentEncryption(header.Encryption())
	if err != nil {
		return nil, err
	}

	cek, err := kmAlg.Unwrap(t.EncryptedKey, key)
	if err != nil {
		return nil, err
	}

	plaintext, err := encAlg.Decrypt(t.Ciphertext, t.IV, t.Tag, cek, buildAAD(t.ProtectedSegment(), req.adata))
	if err != nil {
		return nil, err
	}

	// the header is authenticated by now, but an unknown zip value is
	// still a hard failure so that callers never see garbage claims
	if zip := header.Compression(); zip != "" {
		if err := checkCompression(zip); err != nil {
			return nil, err
		}
		plaintext, err = deflateDecompress(plaintext)
		if err != nil {
			return nil, err
		}
	}

	claims, err := parseClaims(plaintext)
	if err != nil {
		return nil, err
	}
	if err := claims.ValidAt(e.now()); err != nil {
		return nil, err
	}

	return &JWT{Header: header, Claims: claims}, nil
}

// DecryptCompact deserializes a compact token and decrypts it.
func (e *Engine) DecryptCompact(token string, key any, opts ...CallOption) (*JWT, error) {
	t, err := DeserializeCompact(token)
	if err != nil {
		return nil, err
	}
	jwe, ok := t.(*JWE)
	if !ok {
		return nil, newError(InvalidInput, "token is not a JWE")
	}
	return e.Decrypt(jwe, key, opts...)
}

// Encrypt produces a JWE using the default Engine.
func Encrypt(claims Claims, key any, opts ...CallOption) (*JWE, error) {
	return defaultEngine.Encrypt(claims, key, opts...)
}

// Decrypt consumes a JWE using the default Engine.
func Decrypt(t *JWE, key any, opts ...CallOption) (*JWT, error) {
	return defaultEngine.Decrypt(t, key, opts...)
}
