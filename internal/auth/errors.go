package auth

import "errors"

// FailureKind classifies why a request did not authenticate.
type FailureKind int

const (
	NoFailure FailureKind = iota
	MissingToken
	RevokedToken
	InvalidToken
)

func (k FailureKind) String() string {
	switch k {
	case NoFailure:
		return "none"
	case MissingToken:
		return "missing_token"
	case RevokedToken:
		return "revoked_token"
	case InvalidToken:
		return "invalid_token"
	default:
		return "unknown"
	}
}

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrRevokedToken = errors.New("token has been revoked")
	ErrInvalidToken = errors.New("invalid or expired token")
)
