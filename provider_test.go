package jose_test

import (
	"crypto/x509"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axtl/jose"
)

func Test_LoadProviderConfig(t *testing.T) {
	_, err := jose.LoadProviderConfig("testdata/missing.json")
	require.Error(t, err)

	_, err = jose.LoadProviderConfig("testdata/provider_corrupted.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unable to unmarshal JSON: "testdata/provider_corrupted.json"`)

	_, err = jose.LoadProviderConfig("testdata/provider_corrupted.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unable to unmarshal YAML: "testdata/provider_corrupted.yaml"`)

	_, err = jose.LoadProviderConfig("testdata/provider_no_kid.json")
	assert.EqualError(t, err, `missing kid: "testdata/provider_no_kid.json"`)

	_, err = jose.LoadProviderConfig("testdata/provider_no_keys.json")
	assert.EqualError(t, err, `missing keys: "testdata/provider_no_keys.json"`)

	cfg, err := jose.LoadProviderConfig("testdata/provider.json")
	require.NoError(t, err)
	assert.Equal(t, "https://jose.axtl.dev", cfg.Issuer)
	assert.Equal(t, "2", cfg.KeyID)
	assert.Equal(t, 2, len(cfg.Keys))

	cfg, err = jose.LoadProviderConfig("testdata/provider.yaml")
	require.NoError(t, err)
	assert.Equal(t, "1", cfg.KeyID)
	assert.Equal(t, 2, len(cfg.Keys))

	cfg, err = jose.LoadProviderConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Issuer)
}

func Test_LoadProvider(t *testing.T) {
	_, err := jose.LoadProvider("testdata/missing.json", nil)
	require.Error(t, err)

	_, err = jose.LoadProvider("testdata/provider_corrupted.json", nil)
	require.Error(t, err)

	_, err = jose.LoadProvider("", nil)
	assert.EqualError(t, err, "issuer not configured")

	p, err := jose.LoadProvider("testdata/provider.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://jose.axtl.dev", p.Issuer())
}

func Test_ProviderSignSym(t *testing.T) {
	p, err := jose.LoadProvider("testdata/provider.json", nil)
	require.NoError(t, err)
	p2, err := jose.LoadProvider("testdata/provider.yaml", nil)
	require.NoError(t, err)

	extra := jose.Claims{"email": "denis@ekspand.com"}
	token, claims, err := p.SignToken("123", "denis@ekspand.com", []string{"svc1", "svc2"}, time.Minute, extra)
	require.NoError(t, err)
	assert.Equal(t, "123", claims.String(jose.ClaimID))
	assert.Equal(t, p.Issuer(), claims.String(jose.ClaimIssuer))

	parsed, err := p.ParseToken(token, &jose.VerifyConfig{
		ExpectedSubject:  "denis@ekspand.com",
		ExpectedAudience: "svc1",
	})
	require.NoError(t, err)
	assert.Equal(t, "denis@ekspand.com", parsed.String("email"))

	// both keys are shared, so the second provider verifies too even
	// though it signs under a different kid
	parsed, err = p2.ParseToken(token, nil)
	require.NoError(t, err)
	assert.Equal(t, claims.String(jose.ClaimID), parsed.String(jose.ClaimID))

	_, err = p.ParseToken(token, &jose.VerifyConfig{ExpectedSubject: "other@ekspand.com"})
	assert.EqualError(t, err, "invalid subject: denis@ekspand.com")

	_, err = p.ParseToken(token, &jose.VerifyConfig{ExpectedAudience: "svc3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid audience")

	_, err = p.ParseToken("not.a.token", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse token")
}

func Test_ProviderSignExpiry(t *testing.T) {
	p, err := jose.LoadProvider("testdata/provider.json", nil)
	require.NoError(t, err)

	token, _, err := p.SignToken("", "denis@ekspand.com", nil, -time.Minute, nil)
	require.NoError(t, err)

	_, err = p.ParseToken(token, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to verify token")
	assert.True(t, jose.IsKind(err, jose.TokenExpired))
}

func Test_ProviderUnexpectedKid(t *testing.T) {
	cfg := &jose.ProviderConfig{
		Issuer: "https://jose.axtl.dev",
		KeyID:  "3",
		Keys: []*jose.ProviderKey{
			{ID: "1", Seed: "xid4T0PhmYdase1ema91sOwsqcGV2e0p"},
		},
	}
	p, err := jose.NewProvider(cfg, nil)
	require.NoError(t, err)

	_, _, err = p.SignToken("123", "sub", nil, time.Minute, nil)
	assert.EqualError(t, err, `unexpected kid: "3"`)

	// a token from the well-known config carries kid 2, unknown here
	other := jose.MustNewProvider(&jose.ProviderConfig{
		Issuer: "https://jose.axtl.dev",
		Keys: []*jose.ProviderKey{
			{ID: "2", Seed: "HCdmhjdAW9XdUTsdIbsJhih3sJnJZYbq"},
		},
	}, nil)
	token, _, err := other.SignToken("123", "sub", nil, time.Minute, nil)
	require.NoError(t, err)
	_, err = p.ParseToken(token, nil)
	assert.EqualError(t, err, "unexpected kid")
}

func Test_ProviderRSA(t *testing.T) {
	privPEM := string(encodePEM("RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(rsaKey)))

	cfg := &jose.ProviderConfig{
		Issuer:     "https://jose.axtl.dev",
		PrivateKey: privPEM,
	}
	p, err := jose.NewProvider(cfg, nil)
	require.NoError(t, err)

	token, claims, err := p.SignToken("123", "denis@ekspand.com", []string{"svc1"}, time.Minute, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://jose.axtl.dev", claims.String(jose.ClaimIssuer))

	parsed, err := p.ParseToken(token, &jose.VerifyConfig{ExpectedAudience: "svc1"})
	require.NoError(t, err)
	assert.Equal(t, "123", parsed.String(jose.ClaimID))

	// a symmetric provider cannot consume an RSA token
	sym, err := jose.LoadProvider("testdata/provider.json", nil)
	require.NoError(t, err)
	_, err = sym.ParseToken(token, nil)
	assert.EqualError(t, err, "unexpected signing method: RS256")
}

func Test_ProviderEncryptToken(t *testing.T) {
	privPEM := string(encodePEM("RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(rsaKey)))

	p, err := jose.NewProvider(&jose.ProviderConfig{
		Issuer:     "https://jose.axtl.dev",
		PrivateKey: privPEM,
	}, nil)
	require.NoError(t, err)

	token, err := p.EncryptToken(jose.Claims{"email": "denis@ekspand.com"})
	require.NoError(t, err)

	claims, err := p.DecryptToken(token, nil)
	require.NoError(t, err)
	assert.Equal(t, "denis@ekspand.com", claims.String("email"))
	assert.Equal(t, "https://jose.axtl.dev", claims.String(jose.ClaimIssuer))

	_, err = p.DecryptToken("not.a.jwe", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decrypt token")

	// symmetric providers have no encryption key
	sym, err := jose.LoadProvider("testdata/provider.json", nil)
	require.NoError(t, err)
	_, err = sym.EncryptToken(jose.Claims{})
	assert.EqualError(t, err, "encryption key not configured")
	_, err = sym.DecryptToken(token, nil)
	assert.EqualError(t, err, "encryption key not configured")
}

func Test_ProviderInvalidConfig(t *testing.T) {
	_, err := jose.NewProvider(&jose.ProviderConfig{}, nil)
	assert.EqualError(t, err, "issuer not configured")

	_, err = jose.NewProvider(&jose.ProviderConfig{Issuer: "iss"}, nil)
	assert.EqualError(t, err, "keys not provided")

	_, err = jose.NewProvider(&jose.ProviderConfig{
		Issuer:     "iss",
		PrivateKey: "not a pem",
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load private key")

	assert.Panics(t, func() {
		jose.MustNewProvider(&jose.ProviderConfig{}, nil)
	})
}
