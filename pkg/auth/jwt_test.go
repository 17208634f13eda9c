package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newPair(t *testing.T, expiry time.Duration) (*JWTGenerator, *JWTValidator) {
	t.Helper()
	gen, err := NewJWTGenerator(JWTGeneratorConfig{
		SecretKey:  testSecret,
		Issuer:     "ifn-backend",
		Audience:   []string{"ifn-api"},
		ExpiryTime: expiry,
	})
	require.NoError(t, err)

	val, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        "ifn-backend",
		Audience:      []string{"ifn-api"},
	})
	require.NoError(t, err)
	return gen, val
}

func TestJWTValidator_RoundTrip(t *testing.T) {
	gen, val := newPair(t, time.Hour)

	token, err := gen.GenerateToken("u-17", "ana@ifn.co", []string{RoleEncargado})
	require.NoError(t, err)

	claims, err := val.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u-17", claims.UserID)
	assert.Equal(t, []string{RoleEncargado}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTValidator_Rejections(t *testing.T) {
	gen, val := newPair(t, time.Hour)

	t.Run("missing", func(t *testing.T) {
		_, err := val.ValidateToken("Bearer ")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("expired", func(t *testing.T) {
		gen.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { gen.now = time.Now }()

		token, err := gen.GenerateToken("u-1", "", nil)
		require.NoError(t, err)
		_, err = val.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTGenerator(JWTGeneratorConfig{SecretKey: "other", Issuer: "ifn-backend", Audience: []string{"ifn-api"}})
		require.NoError(t, err)
		token, err := other.GenerateToken("u-1", "", nil)
		require.NoError(t, err)

		_, err = val.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other, err := NewJWTGenerator(JWTGeneratorConfig{SecretKey: testSecret, Issuer: "ifn-backend", Audience: []string{"elsewhere"}})
		require.NoError(t, err)
		token, err := other.GenerateToken("u-1", "", nil)
		require.NoError(t, err)

		_, err = val.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{UserID: "u-1"})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = val.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no subject", func(t *testing.T) {
		token, err := gen.GenerateToken("", "", nil)
		require.NoError(t, err)
		_, err = val.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestNewJWTValidator_Config(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "RS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "none", SecretKey: "x"})
	assert.Error(t, err)
}

func TestUserContext_Roles(t *testing.T) {
	user := &UserContext{UserID: "u-1", Roles: []string{RoleBrigadista}}

	assert.True(t, user.HasRole(RoleBrigadista))
	assert.False(t, user.HasRole(RoleEncargado))
	assert.True(t, user.HasAnyRole(RoleEncargado, RoleBrigadista))

	var nobody *UserContext
	assert.False(t, nobody.HasAnyRole(RoleEncargado))
}

func TestUserContext_InContext(t *testing.T) {
	_, err := GetUserFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoUser)

	ctx := SetUserInContext(context.Background(), FromClaims(&Claims{UserID: "u-2", Brigada: "B-01"}))
	user, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B-01", user.Brigada)
}

func TestSlidingWindowLimiter_Allow(t *testing.T) {
	now := time.Date(2024, time.March, 15, 8, 0, 0, 0, time.UTC)
	limiter := NewSlidingWindowLimiter(2, time.Minute).WithClock(func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := limiter.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := limiter.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = limiter.Allow(ctx, "b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = limiter.Allow(ctx, "a")
	assert.True(t, ok, "window slid past the first requests")

	require.NoError(t, limiter.Reset(ctx, "b"))
	users := NewUserRateLimiterWith(limiter)
	ok, _ = users.Allow(ctx, "u-1")
	assert.True(t, ok)
}
