package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	unauthenticatedMessage = "Unauthorizated"
	forbiddenMessage       = "Forbidden"
)

type Authenticator struct {
	verifier    *Verifier
	revocations RevocationRegistry
	logger      *zap.Logger
}

func NewAuthenticator(verifier *Verifier, revocations RevocationRegistry, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		verifier:    verifier,
		revocations: revocations,
		logger:      logger,
	}
}

// Authenticate runs the bearer token through the revocation registry and the
// verifier, in that order. On success it returns r carrying the claims and
// true, leaving w untouched. On failure the response has already been written
// and the caller must stop.
func (a *Authenticator) Authenticate(w http.ResponseWriter, r *http.Request) (*http.Request, bool) {
	ctx := r.Context()

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		a.reject(w, r, MissingToken, ErrMissingToken)
		return r, false
	}

	revoked, err := a.revocations.IsTokenRevoked(ctx, token)
	if err != nil {
		a.reject(w, r, RevokedToken, err)
		return r, false
	}
	if revoked {
		a.reject(w, r, RevokedToken, ErrRevokedToken)
		return r, false
	}

	result := a.verifier.Verify(token)
	if !result.OK() {
		a.reject(w, r, result.Kind, result.Err)
		return r, false
	}

	return r.WithContext(WithClaims(ctx, token, result.Claims)), true
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed, ok := a.Authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, authed)
	})
}

// Revoked and invalid tokens share the 403 body; the reason is only logged.
func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, kind FailureKind, err error) {
	a.logger.Warn("authentication_failed",
		zap.String("reason", kind.String()),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	if kind == MissingToken {
		writeMessage(w, http.StatusUnauthorized, unauthenticatedMessage)
		return
	}
	writeMessage(w, http.StatusForbidden, forbiddenMessage)
}

// bearerToken returns the second whitespace-separated segment of the header.
// The scheme word is not checked.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
