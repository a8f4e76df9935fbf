package jose

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"io"
)

// rsaPKCS1Algorithm implements the RS256/RS384/RS512 signature suites using
// RSASSA-PKCS1-v1_5.
type rsaPKCS1Algorithm struct {
	name string
	hash crypto.Hash
}

// Name implements Algorithm.
func (a rsaPKCS1Algorithm) Name() string {
	return a.name
}

// Type implements Algorithm.
func (a rsaPKCS1Algorithm) Type() AlgorithmType {
	return TypeSignature
}

// Sign implements SignatureAlgorithm. The key must be an *rsa.PrivateKey or
// PEM-encoded private key material.
func (a rsaPKCS1Algorithm) Sign(rand io.Reader, data []byte, key any) ([]byte, error) {
	priv, err := rsaPrivateKey(key, a.name)
	if err != nil {
		return nil, err
	}
	h := a.hash.New()
	h.Write(data)
	sig, err := rsa.SignPKCS1v15(rand, priv, a.hash, h.Sum(nil))
	if err != nil {
		return nil, wrapError(InvalidInput, err, "failed to sign with %s", a.name)
	}
	return sig, nil
}

// Verify implements SignatureAlgorithm. The key must be an *rsa.PublicKey,
// an *rsa.PrivateKey, or PEM-encoded key material.
func (a rsaPKCS1Algorithm) Verify(data, sig []byte, key any) error {
	pub, err := rsaPublicKey(key, a.name)
	if err != nil {
		return err
	}
	h := a.hash.New()
	h.Write(data)
	if err := rsa.VerifyPKCS1v15(pub, a.hash, h.Sum(nil), sig); err != nil {
		return newError(SignatureMismatch, "Mismatched signatures")
	}
	return nil
}

// rsaOAEPAlgorithm implements the RSA-OAEP key-management suite:
// RSAES-OAEP with SHA-1 for both the hash and the mask generation
// function, and an empty label.
type rsaOAEPAlgorithm struct {
	name string
}

// Name implements Algorithm.
func (a rsaOAEPAlgorithm) Name() string {
	return a.name
}

// Type implements Algorithm.
func (a rsaOAEPAlgorithm) Type() AlgorithmType {
	return TypeKeyManagement
}

// Wrap encrypts the CEK to the recipient public key.
func (a rsaOAEPAlgorithm) Wrap(rand io.Reader, cek []byte, key any) ([]byte, error) {
	pub, err := rsaPublicKey(key, a.name)
	if err != nil {
		return nil, err
	}
	wrapped, err := rsa.EncryptOAEP(sha1.New(), rand, pub, cek, nil)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "failed to wrap content encryption key")
	}
	return wrapped, nil
}

// Unwrap decrypts the CEK with the recipient private key. All failure causes
// collapse into a single generic error so callers cannot distinguish a wrong
// key from corrupted ciphertext or bad padding.
func (a rsaOAEPAlgorithm) Unwrap(wrapped []byte, key any) ([]byte, error) {
	priv, err := rsaPrivateKey(key, a.name)
	if err != nil {
		return nil, err
	}
	cek, err := rsa.DecryptOAEP(sha1.New(), nil, priv, wrapped, nil)
	if err != nil {
		return nil, newError(IncorrectDecryption, "Incorrect decryption.")
	}
	return cek, nil
}
