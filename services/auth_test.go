package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hr_records/models"
	"hr_records/services"
	"hr_records/test"
	"hr_records/types"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	f := test.NewFixture(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc := services.New(f.DB, services.Options{
		Clock:   test.FixedClock(testNow),
		Tokens:  services.NewTokenManager("test-secret-0123456789", time.Hour),
		Limiter: services.NewRedisLoginLimiter(rdb, 3, 15*time.Minute),
	})
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		res, err := svc.Auth.Login(ctx, "hana", test.Password)
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, 3600, res.ExpiresIn)
		assert.Equal(t, f.HRManager.ID, res.Identity.UserID)
		assert.Equal(t, models.RoleManager, res.Identity.Role)
		require.NotNil(t, res.Identity.EmployeeID)
		assert.Equal(t, f.HRManagerEmployee.ID, *res.Identity.EmployeeID)

		identity, err := svc.Auth.Resolve(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.Identity.UserID, identity.UserID)
	})

	t.Run("Unknown User And Wrong Password Look The Same", func(t *testing.T) {
		_, err := svc.Auth.Login(ctx, "ghost", test.Password)
		assert.True(t, errors.Is(err, types.ErrInvalidCredentials))
		_, err = svc.Auth.Login(ctx, "bob", "wrong-password")
		assert.True(t, errors.Is(err, types.ErrInvalidCredentials))
	})

	t.Run("Rate Limited After Repeated Failures", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := svc.Auth.Login(ctx, "carol", "wrong-password")
			assert.True(t, errors.Is(err, types.ErrInvalidCredentials))
		}
		_, err := svc.Auth.Login(ctx, "carol", test.Password)
		assert.True(t, errors.Is(err, types.ErrRateLimited))
	})

	t.Run("Success Resets Failures", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := svc.Auth.Login(ctx, "dave", "wrong-password")
			require.Error(t, err)
		}
		_, err := svc.Auth.Login(ctx, "dave", test.Password)
		require.NoError(t, err)
		assert.False(t, mr.Exists("login:fail:dave"))
	})

	t.Run("Limiter Outage Does Not Block Login", func(t *testing.T) {
		down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
		t.Cleanup(func() { _ = down.Close() })
		svc := services.New(f.DB, services.Options{
			Tokens:  services.NewTokenManager("test-secret-0123456789", time.Hour),
			Limiter: services.NewRedisLoginLimiter(down, 3, time.Minute),
		})
		_, err := svc.Auth.Login(ctx, "alice", test.Password)
		require.NoError(t, err)
	})

	t.Run("Deactivated User Loses Session", func(t *testing.T) {
		res, err := svc.Auth.Login(ctx, "bob", test.Password)
		require.NoError(t, err)

		_, err = svc.Users.Deactivate(ctx, test.Identity(f.Admin), f.BobUser.ID)
		require.NoError(t, err)

		_, err = svc.Auth.Resolve(ctx, res.Token)
		assert.True(t, errors.Is(err, types.ErrInvalidCredentials))
		_, err = svc.Auth.Login(ctx, "bob", test.Password)
		assert.True(t, errors.Is(err, types.ErrInvalidCredentials))
	})

	t.Run("Bad Token", func(t *testing.T) {
		_, err := svc.Auth.Resolve(ctx, "garbage")
		assert.True(t, errors.Is(err, types.ErrInvalidCredentials))
	})
}
