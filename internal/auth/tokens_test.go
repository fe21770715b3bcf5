package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestNewTokensRejectsShortSecret(t *testing.T) {
	_, err := NewTokens("short", time.Hour, nil)
	assert.Error(t, err)
}

func TestIssueAndValidateStateless(t *testing.T) {
	tokens, err := NewTokens(secret, time.Hour, nil)
	require.NoError(t, err)
	ctx := context.Background()

	signed, exp, err := tokens.Issue(ctx, "u1", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := tokens.Validate(ctx, signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.NotEmpty(t, claims.ID)

	other, _ := NewTokens("ffffffffffffffffffffffffffffffff", time.Hour, nil)
	_, err = other.Validate(ctx, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredAndForeignAlgorithms(t *testing.T) {
	tokens, _ := NewTokens(secret, -time.Minute, nil)
	ctx := context.Background()

	signed, _, err := tokens.Issue(ctx, "u1", "admin")
	require.NoError(t, err)
	_, err = tokens.Validate(ctx, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Validate(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	tokens, err := NewTokens(secret, time.Hour, rdb)
	require.NoError(t, err)
	ctx := context.Background()

	signed, _, err := tokens.Issue(ctx, "u1", "admin")
	require.NoError(t, err)

	claims, err := tokens.Validate(ctx, signed)
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+claims.ID))

	require.NoError(t, tokens.Revoke(ctx, claims.ID))
	_, err = tokens.Validate(ctx, signed)
	assert.ErrorIs(t, err, ErrRevoked)
}
