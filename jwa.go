package jose

import (
	"crypto"
	_ "crypto/sha256"
	_ "crypto/sha512"
	"io"
	"strings"
)

// AlgorithmType describes the operation family of a registered algorithm.
type AlgorithmType int

// Algorithm families.
const (
	TypeSignature AlgorithmType = iota + 1
	TypeKeyManagement
	TypeContentEncryption
)

// Registered algorithm identifiers.
const (
	HS256 = "HS256"
	HS384 = "HS384"
	HS512 = "HS512"

	RS256 = "RS256"
	RS384 = "RS384"
	RS512 = "RS512"

	RSAOAEP = "RSA-OAEP"

	A128CBCHS256 = "A128CBC-HS256"
	A192CBCHS384 = "A192CBC-HS384"
	A256CBCHS512 = "A256CBC-HS512"
)

// Default algorithms used when the caller does not specify one.
const (
	DefaultSignatureAlgorithm     = HS256
	DefaultKeyManagementAlgorithm = RSAOAEP
	DefaultContentEncryption      = A128CBCHS256
)

// Algorithm is a registered algorithm descriptor.
type Algorithm interface {
	Name() string
	Type() AlgorithmType
}

// SignatureAlgorithm signs and verifies the compact signing input.
type SignatureAlgorithm interface {
	Algorithm
	Sign(rand io.Reader, data []byte, key any) ([]byte, error)
	Verify(data, sig []byte, key any) error
}

// KeyManagementAlgorithm wraps and unwraps per-message content-encryption keys.
type KeyManagementAlgorithm interface {
	Algorithm
	Wrap(rand io.Reader, cek []byte, key any) ([]byte, error)
	Unwrap(wrapped []byte, key any) ([]byte, error)
}

// ContentEncryption is an authenticated-encryption suite for the JWE payload.
type ContentEncryption interface {
	Algorithm
	// KeySize returns the required CEK size in bytes.
	KeySize() int
	Encrypt(rand io.Reader, plaintext, cek, aad []byte) (iv, ciphertext, tag []byte, err error)
	Decrypt(ciphertext, iv, tag, cek, aad []byte) ([]byte, error)
}

// Registry is an immutable mapping from algorithm identifier to descriptor.
// It is built once and safe for concurrent lookups without locking.
type Registry struct {
	impl map[string]Algorithm
}

// NewRegistry returns a registry populated with all supported algorithms.
func NewRegistry() *Registry {
	r := &Registry{impl: map[string]Algorithm{}}

	for _, a := range []Algorithm{
		hmacAlgorithm{name: HS256, hash: crypto.SHA256},
		hmacAlgorithm{name: HS384, hash: crypto.SHA384},
		hmacAlgorithm{name: HS512, hash: crypto.SHA512},

		rsaPKCS1Algorithm{name: RS256, hash: crypto.SHA256},
		rsaPKCS1Algorithm{name: RS384, hash: crypto.SHA384},
		rsaPKCS1Algorithm{name: RS512, hash: crypto.SHA512},

		rsaOAEPAlgorithm{name: RSAOAEP},

		aesCBCAlgorithm{name: "A128CBC", keySize: 16},
		aesCBCAlgorithm{name: "A192CBC", keySize: 24},
		aesCBCAlgorithm{name: "A256CBC", keySize: 32},
	} {
		r.impl[a.Name()] = a
	}

	// composite suites are registered under their canonical "-" identifier,
	// the "+" separator resolves to the same instance via the split path
	for _, id := range []string{A128CBCHS256, A192CBCHS384, A256CBCHS512} {
		parts := strings.SplitN(id, "-", 2)
		r.impl[id] = &aesCBCHMAC{
			name: id,
			enc:  r.impl[parts[0]].(aesCBCAlgorithm),
			mac:  r.impl[parts[1]].(hmacAlgorithm),
		}
	}
	return r
}

// Lookup resolves an algorithm identifier to its descriptor. Composite
// content-encryption identifiers are first matched exactly, then split on
// "-" or "+" into exactly two parts which must both resolve.
// Matching is case-sensitive.
func (r *Registry) Lookup(id string) (Algorithm, error) {
	if a, ok := r.impl[id]; ok {
		return a, nil
	}

	sep := "-"
	if !strings.Contains(id, sep) {
		sep = "+"
	}
	parts := strings.Split(id, sep)
	if len(parts) == 2 {
		enc, encOK := r.impl[parts[0]].(aesCBCAlgorithm)
		mac, macOK := r.impl[parts[1]].(hmacAlgorithm)
		if encOK && macOK {
			if a, ok := r.impl[enc.Name()+"-"+mac.Name()]; ok {
				return a, nil
			}
		}
	}
	return nil, newError(UnsupportedAlgorithm, "Unsupported algorithm: %s", id)
}

// SignatureAlgorithm resolves id to a signature suite.
func (r *Registry) SignatureAlgorithm(id string) (SignatureAlgorithm, error) {
	a, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	s, ok := a.(SignatureAlgorithm)
	if !ok {
		return nil, newError(UnsupportedAlgorithm, "Unsupported algorithm: %s is not a signature algorithm", id)
	}
	return s, nil
}

// KeyManagementAlgorithm resolves id to a key-management suite.
func (r *Registry) KeyManagementAlgorithm(id string) (KeyManagementAlgorithm, error) {
	a, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	k, ok := a.(KeyManagementAlgorithm)
	if !ok {
		return nil, newError(UnsupportedAlgorithm, "Unsupported algorithm: %s is not a key management algorithm", id)
	}
	return k, nil
}

// ContentEncryption resolves id to a content-encryption suite.
func (r *Registry) ContentEncryption(id string) (ContentEncryption, error) {
	a, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	c, ok := a.(ContentEncryption)
	if !ok {
		return nil, newError(UnsupportedAlgorithm, "Unsupported algorithm: %s is not a content encryption algorithm", id)
	}
	return c, nil
}
