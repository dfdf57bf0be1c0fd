package structs

import "errors"

var (
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("no rows in result set")
	ErrUniqueViolation = errors.New("unique violation error")
)

// RemoteError wraps any record or file operation failure reported by the
// backend stores. Gateways return it unchanged, actions surface its message.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return "remote " + e.Op + ": " + e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

type AuthErrorKind string

const (
	AuthEmailAlreadyInUse  AuthErrorKind = "email-already-in-use"
	AuthWeakPassword       AuthErrorKind = "weak-password"
	AuthInvalidEmail       AuthErrorKind = "invalid-email"
	AuthInvalidCredentials AuthErrorKind = "invalid-credentials"
	AuthUserNotFound       AuthErrorKind = "user-not-found"
	AuthNetworkError       AuthErrorKind = "network-error"
)

type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func NewAuthError(kind AuthErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

// ValidationError is a handler-side form check failure. It never reaches
// a gateway.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
