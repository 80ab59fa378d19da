package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

type TokenRevoker interface {
	Revoke(ctx context.Context, token string, until time.Time) error
}

type RefreshTokenRevoker interface {
	RevokeUserToken(ctx context.Context, email string) (bool, error)
}

type Handler struct {
	revoker   TokenRevoker
	users     RefreshTokenRevoker
	retention time.Duration
}

// NewHandler builds the logout handler. retention bounds how long tokens
// without an exp claim stay in the registry.
func NewHandler(revoker TokenRevoker, users RefreshTokenRevoker, retention time.Duration) *Handler {
	if retention <= 0 {
		retention = time.Hour
	}
	return &Handler{revoker: revoker, users: users, retention: retention}
}

// Logout must sit behind Authenticator.Middleware. It revokes the presented
// access token and clears the user's refresh token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := TokenFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, unauthenticatedMessage)
		return
	}
	claims, _ := ClaimsFromContext(r.Context())

	until := time.Now().UTC().Add(h.retention)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		until = exp.Time
	}

	if err := h.revoker.Revoke(r.Context(), token, until); err != nil {
		sentry.CaptureException(err)
		writeError(w, http.StatusInternalServerError, "failed to logout")
		return
	}

	if email := EmailFromClaims(claims); email != "" {
		if _, err := h.users.RevokeUserToken(r.Context(), email); err != nil {
			sentry.CaptureException(err)
			writeError(w, http.StatusInternalServerError, "failed to logout")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
