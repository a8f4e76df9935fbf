// Package jose provides JSON Object Signing and Encryption (JOSE) in the
// compact serialization: signed tokens (JWS) and encrypted tokens (JWE)
// carrying a JWT claims payload.
//
// Supported algorithms:
//   - Signature: HS256, HS384, HS512, RS256, RS384, RS512
//   - Key management: RSA-OAEP
//   - Content encryption: A128CBC-HS256, A192CBC-HS384, A256CBC-HS512
//
// The package exposes both package-level helpers operating on a default
// Engine and an injectable Engine value carrying the algorithm registry,
// random source and clock, so tests can substitute any of them.
//
// Security note: key-unwrap failure (IncorrectDecryption) and authentication
// tag mismatch (AuthenticationTagMismatch) are reported as distinct outcomes
// for compatibility with existing callers. This granularity can act as a
// padding/timing oracle for an attacker who can submit chosen tokens;
// deployments exposed to untrusted token submission should collapse both
// into a single failure at the API boundary.
package jose
