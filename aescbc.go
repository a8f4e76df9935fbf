package jose

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/subtle"
	"encoding/binary"
	"io"
)

// aesCBCAlgorithm is the block-cipher half of a composite content-encryption
// suite. It is registered so that composite identifiers can be resolved from
// their parts, but it does not encrypt on its own.
type aesCBCAlgorithm struct {
	name    string
	keySize int
}

// Name implements Algorithm.
func (a aesCBCAlgorithm) Name() string {
	return a.name
}

// Type implements Algorithm.
func (a aesCBCAlgorithm) Type() AlgorithmType {
	return TypeContentEncryption
}

// aesCBCHMAC is the composite AES-CBC + HMAC-SHA2 authenticated-encryption
// construction used for JWE content encryption (A128CBC-HS256 family).
//
// The CEK is twice the AES key size: the first half is the HMAC subkey, the
// second half is the encryption subkey. The authentication tag is the
// leftmost half of HMAC(macKey, aad || iv || ciphertext || al), where al is
// the 64-bit big-endian bit length of the additional authenticated data.
type aesCBCHMAC struct {
	name string
	enc  aesCBCAlgorithm
	mac  hmacAlgorithm
}

// Name implements Algorithm.
func (a *aesCBCHMAC) Name() string {
	return a.name
}

// Type implements Algorithm.
func (a *aesCBCHMAC) Type() AlgorithmType {
	return TypeContentEncryption
}

// Parts returns the cipher and MAC descriptors the composite was
// resolved from.
func (a *aesCBCHMAC) Parts() (Algorithm, Algorithm) {
	return a.enc, a.mac
}

// KeySize implements ContentEncryption.
func (a *aesCBCHMAC) KeySize() int {
	return 2 * a.enc.keySize
}

func (a *aesCBCHMAC) tagSize() int {
	return a.mac.hash.Size() / 2
}

// splitKey returns the MAC and encryption subkeys: MAC subkey is the first
// half of the CEK, encryption subkey the second.
func (a *aesCBCHMAC) splitKey(cek []byte) (macKey, encKey []byte, err error) {
	if len(cek) != a.KeySize() {
		return nil, nil, newError(InvalidInput, "invalid content encryption key size: expected %d bytes, got %d", a.KeySize(), len(cek))
	}
	half := len(cek) / 2
	return cek[:half], cek[half:], nil
}

func (a *aesCBCHMAC) computeTag(macKey, aad, iv, ciphertext []byte) []byte {
	var al [8]byte
	binary.BigEndian.PutUint64(al[:], uint64(len(aad))*8)

	h := hmac.New(a.mac.hash.New, macKey)
	h.Write(aad)
	h.Write(iv)
	h.Write(ciphertext)
	h.Write(al[:])
	return h.Sum(nil)[:a.tagSize()]
}

// Encrypt implements ContentEncryption. It draws a fresh 16-byte IV from
// rand for every message.
func (a *aesCBCHMAC) Encrypt(rand io.Reader, plaintext, cek, aad []byte) (iv, ciphertext, tag []byte, err error) {
	macKey, encKey, err := a.splitKey(cek)
	if err != nil {
		return nil, nil, nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, nil, nil, wrapError(InvalidInput, err, "invalid encryption subkey")
	}

	iv = make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand, iv); err != nil {
		return nil, nil, nil, wrapError(InvalidInput, err, "failed to generate IV")
	}

	padded := padPKCS7(plaintext, aes.BlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	tag = a.computeTag(macKey, aad, iv, ciphertext)
	return iv, ciphertext, tag, nil
}

// Decrypt implements ContentEncryption. The tag is recomputed and compared
// in constant time before any decryption takes place; padding malformation
// after a valid tag fails through the same path as a tag mismatch.
func (a *aesCBCHMAC) Decrypt(ciphertext, iv, tag, cek, aad []byte) ([]byte, error) {
	macKey, encKey, err := a.splitKey(cek)
	if err != nil {
		return nil, err
	}

	expected := a.computeTag(macKey, aad, iv, ciphertext)
	if !hmac.Equal(tag, expected) {
		return nil, newError(AuthenticationTagMismatch, "Mismatched authentication tags")
	}

	if len(iv) != aes.BlockSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, newError(AuthenticationTagMismatch, "Mismatched authentication tags")
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, wrapError(InvalidInput, err, "invalid encryption subkey")
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, ok := unpadPKCS7(plaintext, aes.BlockSize)
	if !ok {
		return nil, newError(AuthenticationTagMismatch, "Mismatched authentication tags")
	}
	return plaintext, nil
}

func padPKCS7(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, false
	}
	good := 1
	for _, b := range data[len(data)-n:] {
		good &= subtle.ConstantTimeByteEq(b, byte(n))
	}
	if good != 1 {
		return nil, false
	}
	return data[:len(data)-n], true
}
