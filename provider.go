package jose

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/hkdf"
	"gopkg.in/yaml.v3"

	"github.com/axtl/jose/metricskey"
)

// VerifyConfig expresses the possible options for validating a token
type VerifyConfig struct {
	// ExpectedSubject validates the sub claim of a token matches this value
	ExpectedSubject string
	// ExpectedAudience validates that the aud claim of a token contains this value
	ExpectedAudience string
}

// Signer issues tokens for an issuer.
type Signer interface {
	// SignToken returns a signed token with standard claims
	SignToken(id, subject string, audience []string, expiry time.Duration, extra Claims) (string, Claims, error)
}

// Parser consumes tokens issued by a Signer.
type Parser interface {
	// ParseToken verifies a token and returns its claims
	ParseToken(token string, cfg *VerifyConfig) (Claims, error)
}

// Provider specifies the issuer-level token service interface
type Provider interface {
	Signer
	Parser

	// Issuer returns the configured issuer claim
	Issuer() string
	// EncryptToken returns a JWE for the claims under the issuer RSA key
	EncryptToken(claims Claims) (string, error)
	// DecryptToken consumes a JWE issued by EncryptToken
	DecryptToken(token string, cfg *VerifyConfig) (Claims, error)
}

// ProviderKey is a named seed for a symmetric signing key
type ProviderKey struct {
	// ID of the key
	ID string `json:"id" yaml:"id"`
	// Seed the signing key is derived from
	Seed string `json:"seed" yaml:"seed"`
}

// ProviderConfig provides the issuer configuration
type ProviderConfig struct {
	// Issuer specifies issuer claim
	Issuer string `json:"issuer" yaml:"issuer"`
	// KeyID specifies ID of the current key
	KeyID string `json:"kid" yaml:"kid"`
	// Keys specifies list of issuer's symmetric keys
	Keys []*ProviderKey `json:"keys" yaml:"keys"`
	// PrivateKey specifies PEM of the issuer's RSA key
	PrivateKey string `json:"private_key" yaml:"private_key"`
}

type provider struct {
	engine *Engine
	issuer string
	kid    string
	alg    string
	keys   map[string][]byte
	rsaKey *rsa.PrivateKey
}

// LoadProviderConfig returns configuration loaded from a file
func LoadProviderConfig(file string) (*ProviderConfig, error) {
	if file == "" {
		return &ProviderConfig{}, nil
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var config ProviderConfig
	if strings.HasSuffix(file, ".json") {
		err = json.Unmarshal(raw, &config)
		if err != nil {
			return nil, errors.WithMessagef(err, "unable to unmarshal JSON: %q", file)
		}
	} else {
		err = yaml.Unmarshal(raw, &config)
		if err != nil {
			return nil, errors.WithMessagef(err, "unable to unmarshal YAML: %q", file)
		}
	}

	if config.PrivateKey == "" {
		if config.KeyID == "" {
			return nil, errors.Errorf("missing kid: %q", file)
		}
		if len(config.Keys) == 0 {
			return nil, errors.Errorf("missing keys: %q", file)
		}
	}
	return &config, nil
}

// LoadProvider returns a provider configured from a file
func LoadProvider(file string, engine *Engine) (Provider, error) {
	cfg, err := LoadProviderConfig(file)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return NewProvider(cfg, engine)
}

// MustNewProvider returns new provider or panics
func MustNewProvider(cfg *ProviderConfig, engine *Engine) Provider {
	p, err := NewProvider(cfg, engine)
	if err != nil {
		logger.Panicf("unable to create provider: %+v", err)
	}
	return p
}

// NewProvider returns new provider. A nil engine uses the default Engine.
func NewProvider(cfg *ProviderConfig, engine *Engine) (Provider, error) {
	if engine == nil {
		engine = defaultEngine
	}
	p := &provider{
		engine: engine,
		issuer: cfg.Issuer,
		kid:    cfg.KeyID,
		keys:   map[string][]byte{},
	}

	if p.issuer == "" {
		return nil, errors.Errorf("issuer not configured")
	}

	if cfg.PrivateKey != "" {
		key, err := ParseRSAPrivateKeyPEM([]byte(cfg.PrivateKey))
		if err != nil {
			return nil, errors.WithMessage(err, "failed to load private key")
		}
		p.rsaKey = key
		p.alg = rsaSignatureAlgorithm(&key.PublicKey)
	} else {
		if len(cfg.Keys) == 0 {
			return nil, errors.Errorf("keys not provided")
		}

		for _, key := range cfg.Keys {
			derived, err := deriveKey([]byte(key.Seed))
			if err != nil {
				return nil, errors.WithMessage(err, "failed to derive key")
			}
			p.keys[key.ID] = derived
		}

		if p.kid == "" {
			p.kid = cfg.Keys[len(cfg.Keys)-1].ID
		}
		p.alg = HS256
	}
	return p, nil
}

// deriveKey expands a configured seed into a 256-bit signing key.
func deriveKey(seed []byte) ([]byte, error) {
	kdf := hkdf.New(sha256.New, seed, nil, nil)
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errors.WithStack(err)
	}
	return key, nil
}

// rsaSignatureAlgorithm picks the RS family member by key size.
func rsaSignatureAlgorithm(pub *rsa.PublicKey) string {
	keySize := pub.N.BitLen()
	switch {
	case keySize >= 4096:
		return RS512
	case keySize >= 3072:
		return RS384
	default:
		return RS256
	}
}

// Issuer returns the configured issuer claim
func (p *provider) Issuer() string {
	return p.issuer
}

// currentKey returns the key currently being used to sign tokens.
func (p *provider) currentKey() (string, []byte) {
	if key, ok := p.keys[p.kid]; ok {
		return p.kid, key
	}
	return "", nil
}

// SignToken returns a signed token with standard claims and extra claims
// merged in
func (p *provider) SignToken(id, subject string, audience []string, expiry time.Duration, extra Claims) (string, Claims, error) {
	defer metricskey.PerfProviderOperation.MeasureSince(time.Now(), p.issuer, "sign")

	claims := CreateClaims(id, subject, p.issuer, audience, expiry, extra)

	var key any
	header := Header{}
	if p.rsaKey != nil {
		key = p.rsaKey
	} else {
		var kid string
		kid, key = p.currentKey()
		if key == nil {
			return "", nil, errors.Errorf("unexpected kid: %q", p.kid)
		}
		header[HeaderKeyID] = kid
	}

	t, err := p.engine.Sign(claims, key, WithAlgorithm(p.alg), WithHeader(header))
	if err != nil {
		return "", nil, errors.WithMessage(err, "failed to sign token")
	}
	return t.Serialize(), claims, nil
}

// ParseToken verifies a token and returns its claims
func (p *provider) ParseToken(token string, cfg *VerifyConfig) (Claims, error) {
	defer metricskey.PerfProviderOperation.MeasureSince(time.Now(), p.issuer, "parse")

	t, err := DeserializeCompact(token)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse token")
	}
	jws, ok := t.(*JWS)
	if !ok {
		return nil, errors.Errorf("not a signed token")
	}

	header, err := parseHeader(jws.Header)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to parse token")
	}

	var key any
	if strings.HasPrefix(header.Algorithm(), "HS") {
		kid := header.KeyID()
		if kid == "" {
			return nil, errors.Errorf("missing kid")
		}
		key, ok = p.keys[kid]
		if !ok {
			return nil, errors.Errorf("unexpected kid")
		}
	} else {
		if p.rsaKey == nil {
			return nil, errors.Errorf("unexpected signing method: %s", header.Algorithm())
		}
		key = &p.rsaKey.PublicKey
	}

	res, err := p.engine.Verify(jws, key)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to verify token")
	}
	return p.checkClaims(res.Claims, cfg)
}

// EncryptToken returns a JWE for the claims under the issuer RSA key
func (p *provider) EncryptToken(claims Claims) (string, error) {
	defer metricskey.PerfProviderOperation.MeasureSince(time.Now(), p.issuer, "encrypt")

	if p.rsaKey == nil {
		return "", errors.Errorf("encryption key not configured")
	}
	c := Claims{ClaimIssuer: p.issuer}
	_ = c.Add(claims)

	t, err := p.engine.Encrypt(c, &p.rsaKey.PublicKey)
	if err != nil {
		return "", errors.WithMessage(err, "failed to encrypt token")
	}
	return t.Serialize(), nil
}

// DecryptToken consumes a JWE issued by EncryptToken
func (p *provider) DecryptToken(token string, cfg *VerifyConfig) (Claims, error) {
	defer metricskey.PerfProviderOperation.MeasureSince(time.Now(), p.issuer, "decrypt")

	if p.rsaKey == nil {
		return nil, errors.Errorf("encryption key not configured")
	}
	res, err := p.engine.DecryptCompact(token, p.rsaKey)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to decrypt token")
	}
	return p.checkClaims(res.Claims, cfg)
}

func (p *provider) checkClaims(claims Claims, cfg *VerifyConfig) (Claims, error) {
	if iss := claims.String(ClaimIssuer); iss != p.issuer {
		return nil, errors.Errorf("invalid issuer: %s", iss)
	}
	if cfg == nil {
		return claims, nil
	}
	if cfg.ExpectedAudience != "" && !hasAudience(claims, cfg.ExpectedAudience) {
		return nil, errors.Errorf("invalid audience: %s", claims.String(ClaimAudience))
	}
	if cfg.ExpectedSubject != "" && claims.String(ClaimSubject) != cfg.ExpectedSubject {
		return nil, errors.Errorf("invalid subject: %s", claims.String(ClaimSubject))
	}
	return claims, nil
}

func hasAudience(claims Claims, audience string) bool {
	switch aud := claims[ClaimAudience].(type) {
	case string:
		return aud == audience
	case []string:
		for _, a := range aud {
			if a == audience {
				return true
			}
		}
	case []any:
		for _, a := range aud {
			if s, ok := a.(string); ok && s == audience {
				return true
			}
		}
	}
	return false
}
