package jose_test

import (
	"encoding/json"
	"testing"
	"time"

	gojose "github.com/go-jose/go-jose/v3"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axtl/jose"
)

// Tokens produced here decrypt with go-jose, and vice versa.
func Test_InteropJWE(t *testing.T) {
	tcases := []struct {
		enc  string
		alg  gojose.ContentEncryption
		comp gojose.CompressionAlgorithm
	}{
		{"A128CBC-HS256", gojose.A128CBC_HS256, gojose.NONE},
		{"A192CBC-HS384", gojose.A192CBC_HS384, gojose.NONE},
		{"A256CBC-HS512", gojose.A256CBC_HS512, gojose.NONE},
		{"A128CBC-HS256", gojose.A128CBC_HS256, gojose.DEFLATE},
	}

	for _, tc := range tcases {
		t.Run(tc.enc+string(tc.comp), func(t *testing.T) {
			opts := []jose.CallOption{jose.WithEncryption(tc.enc)}
			if tc.comp == gojose.DEFLATE {
				opts = append(opts, jose.WithCompression("DEF"))
			}
			jwe, err := jose.Encrypt(testClaims, &rsaKey.PublicKey, opts...)
			require.NoError(t, err)

			parsed, err := gojose.ParseEncrypted(jose.SerializeCompact(jwe))
			require.NoError(t, err)
			plaintext, err := parsed.Decrypt(rsaKey)
			require.NoError(t, err)

			var claims jose.Claims
			require.NoError(t, json.Unmarshal(plaintext, &claims))
			assert.Equal(t, testClaims, claims)

			// and the reverse direction
			enc, err := gojose.NewEncrypter(tc.alg,
				gojose.Recipient{Algorithm: gojose.RSA_OAEP, Key: &rsaKey.PublicKey},
				&gojose.EncrypterOptions{Compression: tc.comp})
			require.NoError(t, err)
			obj, err := enc.Encrypt([]byte(`{"john":"cleese"}`))
			require.NoError(t, err)
			token, err := obj.CompactSerialize()
			require.NoError(t, err)

			res, err := jose.NewEngine().DecryptCompact(token, rsaKey)
			require.NoError(t, err)
			assert.Equal(t, testClaims, res.Claims)
		})
	}
}

func Test_InteropJWSSymmetric(t *testing.T) {
	secret := []byte("interop password")
	exp := time.Now().Add(time.Hour).Unix()

	jws, err := jose.Sign(jose.Claims{"sub": "denis", "exp": exp}, secret)
	require.NoError(t, err)

	parsed, err := gojwt.Parse(jose.SerializeCompact(jws), func(t *gojwt.Token) (any, error) {
		return secret, nil
	}, gojwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "denis", sub)

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256,
		gojwt.MapClaims{"sub": "denis", "exp": exp}).SignedString(secret)
	require.NoError(t, err)

	res, err := jose.NewEngine().VerifyCompact(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "denis", res.Claims.String("sub"))
}

func Test_InteropJWSAsymmetric(t *testing.T) {
	jws, err := jose.Sign(jose.Claims{"sub": "denis"}, rsaKey, jose.WithAlgorithm("RS384"))
	require.NoError(t, err)

	parsed, err := gojwt.Parse(jose.SerializeCompact(jws), func(t *gojwt.Token) (any, error) {
		return &rsaKey.PublicKey, nil
	}, gojwt.WithValidMethods([]string{"RS384"}))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodRS384,
		gojwt.MapClaims{"sub": "denis"}).SignedString(rsaKey)
	require.NoError(t, err)

	res, err := jose.NewEngine().VerifyCompact(token, &rsaKey.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, "denis", res.Claims.String("sub"))
}
