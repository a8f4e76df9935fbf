package jose

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the failure class of an operation.
type Kind int

// Failure classes. Each carries a stable message; callers should match on
// the kind rather than the message where possible.
const (
	InvalidInput Kind = iota + 1
	MalformedToken
	UnsupportedAlgorithm
	UnsupportedCompression
	IncorrectDecryption
	AuthenticationTagMismatch
	SignatureMismatch
	TokenExpired
	TokenNotYetValid
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case MalformedToken:
		return "malformed_token"
	case UnsupportedAlgorithm:
		return "unsupported_algorithm"
	case UnsupportedCompression:
		return "unsupported_compression"
	case IncorrectDecryption:
		return "incorrect_decryption"
	case AuthenticationTagMismatch:
		return "authentication_tag_mismatch"
	case SignatureMismatch:
		return "signature_mismatch"
	case TokenExpired:
		return "token_expired"
	case TokenNotYetValid:
		return "token_not_yet_valid"
	}
	return "unknown"
}

// Error is the failure type returned by this package.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func wrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   errors.WithStack(cause),
	}
}

// IsKind reports whether err or any error in its chain is a jose *Error
// of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// GetKind returns the kind of err, or 0 if err is not a jose *Error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
