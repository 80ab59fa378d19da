package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"character-api/internal/store"
)

func newTestService() *Service {
	return NewService(store.NewMemory[string, User](), bcrypt.MinCost)
}

func TestService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	u, err := svc.CreateUser(ctx, " Ana@Example.com ", "secret1")
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.Empty(t, u.RefreshToken)
	assert.NotEqual(t, "secret1", u.Password)
	assert.True(t, svc.ValidatePassword(u, "secret1"))
	assert.False(t, svc.ValidatePassword(u, "secret2"))
}

func TestService_CreateUser_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	first, err := svc.CreateUser(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	second, err := svc.CreateUser(ctx, "b@example.com", "secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestService_CreateUser_RequiresInput(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateUser(context.Background(), "", "secret1")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateUser(context.Background(), "a@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_CreateUser_PasswordTooLong(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.CreateUser(ctx, "a@example.com", strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, ok, err := svc.FindUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.BootstrapAdmin(ctx, "admin@example.com", strings.Repeat("x", 73)), ErrInvalidInput)
}

func TestService_CreateUser_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	_, err := svc.CreateUser(ctx, "a@example.com", "first-pass")
	require.NoError(t, err)
	second, err := svc.CreateUser(ctx, "a@example.com", "second-pass")
	require.NoError(t, err)

	found, ok, err := svc.FindUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.ID, found.ID)
	assert.True(t, svc.ValidatePassword(found, "second-pass"))
}

func TestService_FindUserByEmail_Absent(t *testing.T) {
	_, ok, err := newTestService().FindUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_RevokeUserToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	ok, err := svc.RevokeUserToken(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CreateUser(ctx, "a@example.com", "secret1")
	require.NoError(t, err)
	ok, err = svc.SetRefreshToken(ctx, "a@example.com", "refresh-123")
	require.NoError(t, err)
	require.True(t, ok)

	found, _, err := svc.FindUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "refresh-123", found.RefreshToken)

	ok, err = svc.RevokeUserToken(ctx, "A@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	found, _, err = svc.FindUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Empty(t, found.RefreshToken)
	assert.True(t, svc.ValidatePassword(found, "secret1"))
}

func TestService_BootstrapAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("no-op when unset", func(t *testing.T) {
		svc := newTestService()
		require.NoError(t, svc.BootstrapAdmin(ctx, "", ""))
	})

	t.Run("requires both values", func(t *testing.T) {
		svc := newTestService()
		assert.Error(t, svc.BootstrapAdmin(ctx, "admin@example.com", ""))
		assert.Error(t, svc.BootstrapAdmin(ctx, "", "secret1"))
	})

	t.Run("creates admin", func(t *testing.T) {
		svc := newTestService()
		require.NoError(t, svc.BootstrapAdmin(ctx, "admin@example.com", "secret1"))

		found, ok, err := svc.FindUserByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, RoleAdmin, found.Role)
	})
}
