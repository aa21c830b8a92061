package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/cinema-seat-booking/internal/config"
	"github.com/iliyamo/cinema-seat-booking/internal/model"
	"github.com/iliyamo/cinema-seat-booking/internal/utils"
)

const secret = "test-secret"

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, model.User{ID: 9, Name: "Ana", Email: "ana@example.com", Membership: model.TierMember, Role: role}, 5)
	require.NoError(t, err)
	return tok.Token
}

func serve(e *echo.Echo, method, path string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func identityEcho() *echo.Echo {
	e := echo.New()
	h := func(c echo.Context) error {
		cust, ok := CustomerFromContext(c)
		return c.JSON(http.StatusOK, echo.Map{"auth": ok, "email": cust.Email, "membership": cust.Membership})
	}
	e.GET("/required", h, JWTAuth(secret))
	e.GET("/optional", h, OptionalJWT(secret))
	e.GET("/admin", h, JWTAuth(secret), RequireRole(model.RoleAdmin))
	return e
}

func TestJWTAuth(t *testing.T) {
	e := identityEcho()

	rec := serve(e, http.MethodGet, "/required", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodGet, "/required", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(e, http.MethodGet, "/required", map[string]string{"Authorization": "Bearer " + token(t, model.RoleCustomer)})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"auth":true,"email":"ana@example.com","membership":"member"}`, rec.Body.String())
}

func TestOptionalJWT(t *testing.T) {
	e := identityEcho()

	rec := serve(e, http.MethodGet, "/optional", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"auth":false,"email":"","membership":""}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/optional", map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := identityEcho()

	rec := serve(e, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + token(t, model.RoleCustomer)})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(e, http.MethodGet, "/admin", map[string]string{"Authorization": "Bearer " + token(t, model.RoleAdmin)})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSession(t *testing.T) {
	e := echo.New()
	e.Use(Session())
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, SessionID(c)) })

	rec := serve(e, http.MethodGet, "/", map[string]string{SessionHeader: "abc"})
	assert.Equal(t, "abc", rec.Body.String())
	assert.Equal(t, "abc", rec.Header().Get(SessionHeader))

	rec = serve(e, http.MethodGet, "/", nil)
	generated := rec.Header().Get(SessionHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusInternalServerError, "boom") })

	serve(e, http.MethodGet, "/ok", nil)
	serve(e, http.MethodGet, "/boom", nil)
	serve(e, http.MethodGet, "/missing", nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "Request completed", entries[0].Message)
	assert.Equal(t, "Server error", entries[1].Message)
	assert.EqualValues(t, 500, entries[1].ContextMap()["status"])
	assert.Equal(t, "Client error", entries[2].Message)
}

func TestPassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil))

	rec := serve(e, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestParseBucketResult(t *testing.T) {
	allowed, remaining, retry, ok := parseBucketResult([]interface{}{int64(1), int64(4), int64(0)})
	assert.True(t, ok)
	assert.True(t, allowed)
	assert.Equal(t, int64(4), remaining)
	assert.Zero(t, retry)

	allowed, _, retry, ok = parseBucketResult([]interface{}{"0", "0", "750"})
	assert.True(t, ok)
	assert.False(t, allowed)
	assert.Equal(t, int64(750), retry)

	_, _, _, ok = parseBucketResult("nope")
	assert.False(t, ok)
}

func TestCacheKeyIncludesParams(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	key := func(id string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/movies/"+id, nil), httptest.NewRecorder())
		c.SetPath("/v1/movies/:id")
		c.SetParamNames("id")
		c.SetParamValues(id)
		return cacheKeyFrom(cfg, c)
	}
	assert.NotEqual(t, key("1"), key("2"))
	assert.Equal(t, key("3"), key("3"))
	assert.Contains(t, key("1"), "cache:")
}

func TestRateKeyGuestsShareIPBucket(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	e := echo.New()
	var keys []string
	e.POST("/v1/bookings/confirm", func(c echo.Context) error {
		keys = append(keys, buildRateKey(cfg, c))
		return c.NoContent(http.StatusOK)
	}, Session())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/bookings/confirm", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		e.ServeHTTP(httptest.NewRecorder(), req)
	}
	other := httptest.NewRequest(http.MethodPost, "/v1/bookings/confirm", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	other.Header.Set(SessionHeader, "chosen-by-client")
	e.ServeHTTP(httptest.NewRecorder(), other)

	require.Len(t, keys, 4)
	assert.Equal(t, "rl:ip:10.0.0.1:user:guest:route:POST /v1/bookings/confirm", keys[0])
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, keys[0], keys[2])
	assert.Equal(t, "rl:ip:10.0.0.2:user:guest:route:POST /v1/bookings/confirm", keys[3])
}
