package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRateLimiterHonorsConfiguredLimit(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	sec := &securityMetrics{}
	for i := 0; i < 2; i++ {
		if !rl.allow("10.0.0.1", sec) {
			t.Fatalf("request %d should pass under the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1", sec) {
		t.Error("third request should exceed the limit")
	}
	if got := atomic.LoadInt64(&sec.rateLimitHits); got != 1 {
		t.Errorf("rateLimitHits = %d, want 1", got)
	}

	// other clients are counted independently
	if !rl.allow("10.0.0.2", sec) {
		t.Error("fresh client should not be throttled")
	}
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := newRateLimiter(0, 0)
	defer rl.stop()

	if rl.limit != defaultRateLimit {
		t.Errorf("limit = %d, want %d", rl.limit, defaultRateLimit)
	}
	if rl.window != defaultRateLimitWindow {
		t.Errorf("window = %v, want %v", rl.window, defaultRateLimitWindow)
	}
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	srv := newTestServerOpts(t, true, Options{RateLimitRequests: 1, RateLimitWindow: time.Minute})

	body := `{"name": "Novo Aluno", "tuitionValue": "900,00"}`
	rec := postJSON(srv, "/api/students", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first mutation status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	rec = postJSON(srv, "/api/students", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second mutation status = %d, want 429", rec.Code)
	}

	// reads stay exempt from the limiter
	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/students", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("read status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Novo Aluno") {
		t.Error("first mutation should have landed despite the later throttle")
	}
}
