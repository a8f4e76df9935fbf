package jose

import (
	"crypto"
	"crypto/hmac"
	"io"
)

// hmacAlgorithm implements the HS256/HS384/HS512 signature suites. It also
// serves as the MAC half of the composite content-encryption suites.
type hmacAlgorithm struct {
	name string
	hash crypto.Hash
}

// Name implements Algorithm.
func (a hmacAlgorithm) Name() string {
	return a.name
}

// Type implements Algorithm.
func (a hmacAlgorithm) Type() AlgorithmType {
	return TypeSignature
}

// Sign implements SignatureAlgorithm. The key must be a []byte or string
// shared secret.
func (a hmacAlgorithm) Sign(_ io.Reader, data []byte, key any) ([]byte, error) {
	secret, err := symmetricSecret(key, a.name)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(a.hash.New, secret)
	mac.Write(data)
	return mac.Sum(nil), nil
}

// Verify implements SignatureAlgorithm with a constant-time comparison.
func (a hmacAlgorithm) Verify(data, sig []byte, key any) error {
	expected, err := a.Sign(nil, data, key)
	if err != nil {
		return err
	}
	if !hmac.Equal(sig, expected) {
		return newError(SignatureMismatch, "Mismatched signatures")
	}
	return nil
}
