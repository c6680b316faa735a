package middleware

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	var called bool
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) { called = true })

	var ctx fasthttp.RequestCtx
	handler(&ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

func TestJWTAuthRejectsTokenWithoutIdentity(t *testing.T) {
	var called bool
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) { called = true })

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"role": "lawyer"}))
	ctx.Request.Header.Set("X-User-ID", "forged")
	handler(&ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Request.Header.Peek("X-User-ID"))
}

func TestJWTAuthOverridesInboundIdentityHeader(t *testing.T) {
	var seen string
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		seen = string(ctx.Request.Header.Peek("X-User-ID"))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"user_id": "u1"}))
	ctx.Request.Header.Set("X-User-ID", "forged")
	handler(&ctx)

	assert.Equal(t, "u1", seen)
}

func TestJWTAuthFallsBackToSubClaim(t *testing.T) {
	var seen string
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
		seen = string(ctx.Request.Header.Peek("X-User-ID"))
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": "u2"}))
	handler(&ctx)

	assert.Equal(t, "u2", seen)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	var called bool
	handler := JWTAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) { called = true })

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u1"}).
		SignedString([]byte("other-secret"))
	require.NoError(t, err)

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("Authorization", "Bearer "+forged)
	handler(&ctx)

	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}
