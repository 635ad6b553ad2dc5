package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kovil/internal/adapter/memstore"
	"kovil/internal/domain"
	"kovil/internal/infra"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(memstore.New().Admins(), zerolog.Nop()).WithCost(bcrypt.MinCost)
	n, err := store.Seed(context.Background(), []infra.AdminSeed{
		{Username: "templeadmin", Password: "Kovil@2024", Role: "superadmin"},
		{Username: "clerk", Password: "Clerk#123"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return store
}

func TestSeedSkipsExistingAccounts(t *testing.T) {
	store := newTestStore(t)
	n, err := store.Seed(context.Background(), []infra.AdminSeed{{Username: "TempleAdmin", Password: "Other@999"}})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = store.Validate(context.Background(), "templeadmin", "Kovil@2024")
	assert.NoError(t, err)
}

func TestSeedRejectsUnknownRole(t *testing.T) {
	store := NewStore(memstore.New().Admins(), zerolog.Nop()).WithCost(bcrypt.MinCost)
	_, err := store.Seed(context.Background(), []infra.AdminSeed{{Username: "x1y", Password: "p", Role: "owner"}})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	admin, err := store.Validate(ctx, "templeadmin", "Kovil@2024")
	require.NoError(t, err)
	assert.True(t, admin.IsSuperAdmin())

	stored, err := store.Get(ctx, "templeadmin")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)

	clerk, err := store.Validate(ctx, "clerk", "Clerk#123")
	require.NoError(t, err)
	assert.Equal(t, domain.AdminRoleAdmin, clerk.Role)

	_, err = store.Validate(ctx, "templeadmin", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = store.Validate(ctx, "nobody", "Kovil@2024")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = store.Validate(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		req    ChangeRequest
		reason string
		target error
		weak   bool
	}{
		{
			name:   "missing fields",
			req:    ChangeRequest{CurrentUsername: "clerk", CurrentPassword: "Clerk#123"},
			reason: "All fields are required",
		},
		{
			name:   "confirm mismatch",
			req:    ChangeRequest{CurrentUsername: "clerk", CurrentPassword: "Clerk#123", NewUsername: "clerk", NewPassword: "Strong#Pass1", ConfirmPassword: "Strong#Pass2"},
			reason: "New password and confirm password do not match",
		},
		{
			name:   "short username",
			req:    ChangeRequest{CurrentUsername: "clerk", CurrentPassword: "Clerk#123", NewUsername: "ab", NewPassword: "Strong#Pass1", ConfirmPassword: "Strong#Pass1"},
			reason: "Username must be at least 3 characters long",
		},
		{
			name:   "wrong current password",
			req:    ChangeRequest{CurrentUsername: "clerk", CurrentPassword: "nope", NewUsername: "clerk2", NewPassword: "Strong#Pass1", ConfirmPassword: "Strong#Pass1"},
			target: domain.ErrInvalidCredentials,
		},
		{
			name: "weak password",
			req:  ChangeRequest{CurrentUsername: "clerk", CurrentPassword: "Clerk#123", NewUsername: "clerk2", NewPassword: "weak", ConfirmPassword: "weak"},
			weak: true,
		},
		{
			name:   "username taken",
			req:    ChangeRequest{CurrentUsername: "clerk", CurrentPassword: "Clerk#123", NewUsername: "TEMPLEADMIN", NewPassword: "Strong#Pass1", ConfirmPassword: "Strong#Pass1"},
			reason: "Username is already taken",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t)
			_, err := store.Update(ctx, tc.req)
			require.Error(t, err)
			switch {
			case tc.reason != "":
				var verr *domain.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, []string{tc.reason}, verr.Reasons)
			case tc.target != nil:
				assert.ErrorIs(t, err, tc.target)
			case tc.weak:
				var werr *WeakPasswordError
				require.True(t, errors.As(err, &werr))
				assert.NotEmpty(t, werr.Reasons)
			}
		})
	}

	t.Run("success", func(t *testing.T) {
		store := newTestStore(t)
		admin, err := store.Update(ctx, ChangeRequest{
			CurrentUsername: "clerk",
			CurrentPassword: "Clerk#123",
			NewUsername:     "counter",
			NewPassword:     "Strong#Pass1",
			ConfirmPassword: "Strong#Pass1",
		})
		require.NoError(t, err)
		assert.Equal(t, "counter", admin.Username)

		_, err = store.Validate(ctx, "clerk", "Clerk#123")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		_, err = store.Validate(ctx, "counter", "Strong#Pass1")
		assert.NoError(t, err)
	})
}

func TestSetPassword(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.SetPassword(ctx, "clerk", "Reset#Pass9", "")
	require.NoError(t, err)
	_, err = store.Validate(ctx, "clerk", "Reset#Pass9")
	assert.NoError(t, err)

	created, err := store.SetPassword(ctx, "treasurer", "Treas#Pass9", domain.AdminRoleSuperAdmin)
	require.NoError(t, err)
	assert.True(t, created.IsSuperAdmin())

	admins, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 3)

	_, err = store.SetPassword(ctx, "clerk", "short", "")
	var werr *WeakPasswordError
	assert.True(t, errors.As(err, &werr))
}

func TestCheckPasswordStrength(t *testing.T) {
	assert.Empty(t, CheckPasswordStrength("Str0ng!Pass"))
	assert.Equal(t, []string{
		"Password must be at least 8 characters long",
		"Password must contain at least one uppercase letter",
		"Password must contain at least one number",
		"Password must contain at least one special character",
	}, CheckPasswordStrength("abc"))
	assert.Equal(t, []string{"Password contains common patterns and is not secure"}, CheckPasswordStrength("Password1!"))
	assert.Equal(t, []string{"Password contains common patterns and is not secure"}, CheckPasswordStrength("Temple#2024x"))
}
