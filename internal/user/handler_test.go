package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Register(t *testing.T) {
	t.Run("creates user", func(t *testing.T) {
		svc := newTestService()
		h := NewHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"ana@example.com","password":"secret1"}`))
		w := httptest.NewRecorder()
		h.Register(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "user", body["role"])
		assert.NotContains(t, body, "password")

		_, ok, err := svc.FindUserByEmail(context.Background(), "ana@example.com")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.CreateUser(context.Background(), "ana@example.com", "secret1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"ana@example.com","password":"secret2"}`))
		w := httptest.NewRecorder()
		NewHandler(svc).Register(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":"not-an-email","password":"123"}`))
		w := httptest.NewRecorder()
		NewHandler(newTestService()).Register(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body.Fields, "email")
		assert.Contains(t, body.Fields, "password")
	})

	t.Run("password longer than 72 characters", func(t *testing.T) {
		payload := `{"email":"ana@example.com","password":"` + strings.Repeat("x", 73) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(payload))
		w := httptest.NewRecorder()
		NewHandler(newTestService()).Register(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "password must be at most 72 characters", body.Fields["password"])
	})

	t.Run("password longer than 72 bytes", func(t *testing.T) {
		svc := newTestService()
		payload := `{"email":"ana@example.com","password":"` + strings.Repeat("é", 40) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(payload))
		w := httptest.NewRecorder()
		NewHandler(svc).Register(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "password must be at most 72 bytes")

		_, ok, err := svc.FindUserByEmail(context.Background(), "ana@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"email":`))
		w := httptest.NewRecorder()
		NewHandler(newTestService()).Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid json body"}`, w.Body.String())
	})
}
