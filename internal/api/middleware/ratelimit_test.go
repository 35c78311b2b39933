package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/tasker-api/internal/api/middleware"
)

func newLimitedHandler(t *testing.T, perMinute int) http.Handler {
	t.Helper()

	rl := middleware.NewRateLimiter(perMinute)
	t.Cleanup(rl.Stop)

	return rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestRateLimiter_EnforcesBudget(t *testing.T) {
	handler := newLimitedHandler(t, 3)

	for i := 0; i < 3; i++ {
		rr := doRequest(handler, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rr.Code, "request %d should be within the budget", i+1)
	}

	rr := doRequest(handler, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
}

func TestRateLimiter_KeysByClientIP(t *testing.T) {
	handler := newLimitedHandler(t, 1)

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1:9999").Code,
		"same IP on another port shares the budget")
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.2:1234").Code,
		"a different client has its own budget")
}

func TestRateLimiter_DisabledWithNonPositiveBudget(t *testing.T) {
	handler := newLimitedHandler(t, 0)

	for i := 0; i < 50; i++ {
		rr := doRequest(handler, "10.0.0.1:1234")
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}
