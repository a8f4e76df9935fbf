package jose

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/axtl/jose", "jose")

// Engine performs the encrypt/decrypt/sign/verify operations. The registry,
// random source and clock are explicit dependencies; the zero-cost defaults
// are the built-in registry, crypto/rand and time.Now. An Engine is immutable
// after construction and safe for concurrent use.
type Engine struct {
	registry *Registry
	rand     io.Reader
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry substitutes the algorithm registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithRandom substitutes the random source. It must be cryptographically
// secure in production use.
func WithRandom(r io.Reader) Option {
	return func(e *Engine) {
		e.rand = r
	}
}

// WithClock substitutes the wall-clock source used for claims validation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine returns a new Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		rand:     rand.Reader,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the algorithm registry of the engine.
func (e *Engine) Registry() *Registry {
	return e.registry
}

var defaultEngine = NewEngine()

// request collects per-call parameters for encrypt/decrypt/sign.
type request struct {
	alg         string
	enc         string
	compression string
	header      Header
	adata       []byte
}

// CallOption configures a single encrypt/decrypt/sign call.
type CallOption func(*request)

// WithAlgorithm selects the key-management algorithm for Encrypt or the
// signature algorithm for Sign.
func WithAlgorithm(alg string) CallOption {
	return func(r *request) {
		r.alg = alg
	}
}

// WithEncryption selects the content-encryption algorithm for Encrypt.
func WithEncryption(enc string) CallOption {
	return func(r *request) {
		r.enc = enc
	}
}

// WithCompression sets the "zip" header value; only "DEF" is supported.
func WithCompression(zip string) CallOption {
	return func(r *request) {
		r.compression = zip
	}
}

// WithHeader merges extra header parameters into the protected header.
// Reserved parameters set by the call itself take precedence.
func WithHeader(h Header) CallOption {
	return func(r *request) {
		if r.header == nil {
			r.header = Header{}
		}
		r.header.Merge(h)
	}
}

// WithAdata supplies optional additional authenticated data. Both sides of
// an exchange must supply the same value: the AAD becomes
// encodedHeader || "." || base64url(adata).
func WithAdata(adata []byte) CallOption {
	return func(r *request) {
		r.adata = adata
	}
}

func newRequest(opts ...CallOption) *request {
	r := &request{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// buildAAD returns the additional authenticated data for a JWE exchange:
// the transmitted base64url header segment, and when caller adata is
// present, a dot followed by the base64url encoding of the adata. The
// adata is encoded so that the framing is unambiguous; both encrypt and
// decrypt apply the identical rule.
func buildAAD(protected string, adata []byte) []byte {
	if len(adata) == 0 {
		return []byte(protected)
	}
	return []byte(protected + "." + EncodeSegment(adata))
}
