package jose

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
)

// ParseRSAPrivateKeyPEM returns the RSA private key parsed from PEM, in
// either PKCS#1 or PKCS#8 encoding.
func ParseRSAPrivateKeyPEM(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, newError(InvalidInput, "unable to parse PEM")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "unable to parse private key")
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, newError(InvalidInput, "not an RSA private key")
	}
	return rsaKey, nil
}

// ParseRSAPublicKeyPEM returns the RSA public key parsed from PEM: a PKIX
// or PKCS#1 public key, a certificate, or a private key from which the
// public component is taken.
func ParseRSAPublicKeyPEM(raw []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, newError(InvalidInput, "unable to parse PEM")
	}

	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, wrapError(InvalidInput, err, "unable to parse certificate")
		}
		pub, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, newError(InvalidInput, "not an RSA public key")
		}
		return pub, nil
	case "RSA PRIVATE KEY", "PRIVATE KEY":
		key, err := ParseRSAPrivateKeyPEM(raw)
		if err != nil {
			return nil, err
		}
		return &key.PublicKey, nil
	}

	if pub, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return pub, nil
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "unable to parse public key")
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, newError(InvalidInput, "not an RSA public key")
	}
	return rsaPub, nil
}

func isPEM(b []byte) bool {
	return strings.Contains(string(b), "-----BEGIN ")
}

// symmetricSecret coerces key material for the HMAC suites: a []byte or
// string shared secret.
func symmetricSecret(key any, alg string) ([]byte, error) {
	switch k := key.(type) {
	case []byte:
		return k, nil
	case string:
		return []byte(k), nil
	default:
		return nil, newError(InvalidInput, "invalid key type %T for %s", key, alg)
	}
}

// rsaPrivateKey coerces key material for the RSA suites: an
// *rsa.PrivateKey or PEM bytes.
func rsaPrivateKey(key any, alg string) (*rsa.PrivateKey, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return k, nil
	case []byte:
		if isPEM(k) {
			return ParseRSAPrivateKeyPEM(k)
		}
	case string:
		if isPEM([]byte(k)) {
			return ParseRSAPrivateKeyPEM([]byte(k))
		}
	}
	return nil, newError(InvalidInput, "invalid key type %T for %s", key, alg)
}

// rsaPublicKey coerces key material for the RSA suites: an *rsa.PublicKey,
// an *rsa.PrivateKey, or PEM bytes.
func rsaPublicKey(key any, alg string) (*rsa.PublicKey, error) {
	switch k := key.(type) {
	case *rsa.PublicKey:
		return k, nil
	case *rsa.PrivateKey:
		return &k.PublicKey, nil
	case []byte:
		if isPEM(k) {
			return ParseRSAPublicKeyPEM(k)
		}
	case string:
		if isPEM([]byte(k)) {
			return ParseRSAPublicKeyPEM([]byte(k))
		}
	}
	return nil, newError(InvalidInput, "invalid key type %T for %s", key, alg)
}
