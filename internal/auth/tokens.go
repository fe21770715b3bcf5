package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const issuer = "ppsg-cms"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevoked      = errors.New("token revoked or expired")
)

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens issues and validates admin session tokens. When a Redis client is
// configured every issued token id is recorded there and a token is only
// valid while its id is present, which makes logout effective before
// expiry. Without Redis, tokens are valid until they expire.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
}

func NewTokens(secret string, ttl time.Duration, rdb *redis.Client) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters")
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, rdb: rdb}, nil
}

func (t *Tokens) TTL() time.Duration { return t.ttl }

func sessionKey(jti string) string { return "session:" + jti }

func (t *Tokens) Issue(ctx context.Context, userID, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.ttl)
	jti := uuid.NewString()

	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	if t.rdb != nil {
		if err := t.rdb.Set(ctx, sessionKey(jti), userID, t.ttl).Err(); err != nil {
			return "", time.Time{}, fmt.Errorf("record session: %w", err)
		}
	}
	return signed, exp, nil
}

func (t *Tokens) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if t.rdb != nil {
		exists, err := t.rdb.Exists(ctx, sessionKey(claims.ID)).Result()
		if err != nil || exists != 1 {
			return nil, ErrRevoked
		}
	}
	return claims, nil
}

// Revoke ends the session with the given token id.
func (t *Tokens) Revoke(ctx context.Context, jti string) error {
	if t.rdb == nil || jti == "" {
		return nil
	}
	return t.rdb.Del(ctx, sessionKey(jti)).Err()
}
