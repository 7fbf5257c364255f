package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/greenhouse/internal/config"
)

const testSecret = "unit-test-secret"

func mintAccessToken(t *testing.T, secret string, sub uint64) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": "MEMBER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func newTestContext(t *testing.T, path, bearer string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	return c
}

func TestRequestUserIDResolvesBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		bearer string
		want   string
	}{
		{"valid token", mintAccessToken(t, testSecret, 42), "42"},
		{"wrong secret", mintAccessToken(t, "other-secret", 42), anonUser},
		{"garbage token", "not-a-jwt", anonUser},
		{"no header", "", anonUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, "/v1/plants", tt.bearer)
			if got := requestUserID(c, testSecret); got != tt.want {
				t.Errorf("requestUserID = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestUserIDPrefersContextValue(t *testing.T) {
	// Behind JWTAuth the context value is authoritative; the header is
	// not re-parsed.
	c := newTestContext(t, "/v1/plants", "not-a-jwt")
	c.Set("user_id", float64(7))
	if got := requestUserID(c, testSecret); got != "7" {
		t.Errorf("requestUserID = %q, want %q", got, "7")
	}
}

func TestCacheKeySeparatesUsers(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	alice := newTestContext(t, "/v1/plants", mintAccessToken(t, testSecret, 1))
	bob := newTestContext(t, "/v1/plants", mintAccessToken(t, testSecret, 2))

	aliceKey := cacheKeyFrom(cfg, alice, requestUserID(alice, testSecret))
	bobKey := cacheKeyFrom(cfg, bob, requestUserID(bob, testSecret))
	if aliceKey == bobKey {
		t.Fatalf("same cache key %q for different users", aliceKey)
	}

	aliceAgain := newTestContext(t, "/v1/plants", mintAccessToken(t, testSecret, 1))
	if k := cacheKeyFrom(cfg, aliceAgain, requestUserID(aliceAgain, testSecret)); k != aliceKey {
		t.Errorf("key not stable for one user: %q vs %q", k, aliceKey)
	}
}

func TestCacheBypassesAnonymousRequests(t *testing.T) {
	// No valid identity means no cache participation at all: the
	// request flows straight through and neither stores nor serves a
	// cached body.
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         time.Minute,
		Prefix:      "cache",
		KeyStrategy: "route_query",
	}
	mw := NewRedisCache(cfg, redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), testSecret)

	handled := false
	h := mw(func(c echo.Context) error {
		handled = true
		return c.String(http.StatusOK, "ok")
	})

	c := newTestContext(t, "/v1/plants", "not-a-jwt")
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !handled {
		t.Fatal("anonymous request did not reach the handler")
	}
	if got := c.Response().Header().Get("X-Cache"); got != "" {
		t.Errorf("X-Cache = %q, want empty for anonymous request", got)
	}
}

func TestRateKeyUsesResolvedUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "ratelimit", KeyStrategy: "user"}
	c := newTestContext(t, "/v1/plants", mintAccessToken(t, testSecret, 9))
	key := buildRateKey(cfg, c, requestUserID(c, testSecret))
	if want := "ratelimit:user:9"; key != want {
		t.Errorf("rate key = %q, want %q", key, want)
	}
}
