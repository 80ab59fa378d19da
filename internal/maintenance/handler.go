package maintenance

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type RevocationPurger interface {
	Purge(ctx context.Context) (int, error)
	Len() int
}

// CleanupHandler drops revocation entries for tokens that have expired. It is
// meant to be hit by a scheduler holding CRON_SECRET.
type CleanupHandler struct {
	revocations RevocationPurger
	logger      *zap.Logger
	cronSecret  string
}

func NewCleanupHandler(revocations RevocationPurger, logger *zap.Logger, cronSecret string) *CleanupHandler {
	return &CleanupHandler{
		revocations: revocations,
		logger:      logger,
		cronSecret:  strings.TrimSpace(cronSecret),
	}
}

func (h *CleanupHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.cronSecret == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") ||
		subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.cronSecret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	purged, err := h.revocations.Purge(r.Context())
	if err != nil {
		h.logger.Error("revocation_cleanup_failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "cleanup failed"})
		return
	}

	h.logger.Info("revocation_cleanup_completed",
		zap.Int("purged_revocations", purged),
		zap.Int("remaining_revocations", h.revocations.Len()),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"purged_revocations": purged,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
