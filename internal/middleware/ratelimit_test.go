package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestRateLimiter(t *testing.T, cfg RateLimiterConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)
	return rl
}

func limitedRequest(username string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	return req.WithContext(ContextWithUsername(req.Context(), username))
}

// --- GeneralMiddleware のテスト ---

func TestGeneralMiddleware_AllowsRequestsWithinBurst(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     2, // 2 req/sec
		GeneralBurst:    5,
		UploadRate:      1,
		UploadBurst:     10,
		CleanupInterval: 1 * time.Minute,
	})

	handlerCallCount := 0
	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCallCount++
		w.WriteHeader(http.StatusOK)
	}))

	// バースト内の5リクエストは全て通る
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, limitedRequest("yusuf"))

		if w.Result().StatusCode != http.StatusOK {
			t.Errorf("request %d: status = %d, want %d", i, w.Result().StatusCode, http.StatusOK)
		}
	}

	if handlerCallCount != 5 {
		t.Errorf("handler call count = %d, want 5", handlerCallCount)
	}
}

func TestGeneralMiddleware_Returns429WithRetryAfter(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     1, // 1 req/sec
		GeneralBurst:    1,
		UploadRate:      1,
		UploadBurst:     10,
		CleanupInterval: 1 * time.Minute,
	})

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// 1回目は通る
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("maryam"))
	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	// 2回目は429になる
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, limitedRequest("maryam"))

	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
	}

	retryAfter := w2.Result().Header.Get("Retry-After")
	if retryAfter == "" {
		t.Fatal("expected Retry-After header to be present")
	}
	retrySeconds, err := strconv.Atoi(retryAfter)
	if err != nil {
		t.Errorf("Retry-After header should be a number, got %q", retryAfter)
	}
	if retrySeconds < 1 {
		t.Errorf("Retry-After = %d, should be at least 1", retrySeconds)
	}
}

func TestGeneralMiddleware_IsolatesUsers(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		UploadRate:      1,
		UploadBurst:     10,
		CleanupInterval: 1 * time.Minute,
	})

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// yusufの1回目は通り、2回目は429
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, limitedRequest("yusuf"))
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("yusuf first request: status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, limitedRequest("yusuf"))
	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("yusuf second request: status = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
	}

	// maryamはyusufの消費に影響されない
	wB := httptest.NewRecorder()
	handler.ServeHTTP(wB, limitedRequest("maryam"))
	if wB.Result().StatusCode != http.StatusOK {
		t.Errorf("maryam first request: status = %d, want %d", wB.Result().StatusCode, http.StatusOK)
	}
}

func TestGeneralMiddleware_NoUsername_Returns401(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     2,
		GeneralBurst:    5,
		UploadRate:      1,
		UploadBurst:     10,
		CleanupInterval: 1 * time.Minute,
	})

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called without username")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

// --- UploadMiddleware のテスト ---

func TestUploadMiddleware_IndependentFromGeneralLimit(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     1,
		GeneralBurst:    1,
		UploadRate:      1,
		UploadBurst:     1,
		CleanupInterval: 1 * time.Minute,
	})

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	upload := rl.UploadMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// API全般のバーストを使い切る
	w := httptest.NewRecorder()
	general.ServeHTTP(w, limitedRequest("yusuf"))
	w2 := httptest.NewRecorder()
	general.ServeHTTP(w2, limitedRequest("yusuf"))
	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Fatalf("general second request: status = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
	}

	// アップロードのリミッターは別枠なので通る
	wU := httptest.NewRecorder()
	upload.ServeHTTP(wU, limitedRequest("yusuf"))
	if wU.Result().StatusCode != http.StatusOK {
		t.Errorf("upload request: status = %d, want %d", wU.Result().StatusCode, http.StatusOK)
	}
}

// --- 設定とクリーンアップのテスト ---

func TestNewRateLimiterConfig_ConvertsPerMinuteRates(t *testing.T) {
	cfg := NewRateLimiterConfig(120, 20)

	if cfg.GeneralRate != rate.Limit(2.0) {
		t.Errorf("GeneralRate = %v, want %v", cfg.GeneralRate, rate.Limit(2.0))
	}
	if cfg.GeneralBurst != 120 {
		t.Errorf("GeneralBurst = %d, want 120", cfg.GeneralBurst)
	}
	if cfg.UploadRate != rate.Limit(20.0/60.0) {
		t.Errorf("UploadRate = %v, want %v", cfg.UploadRate, rate.Limit(20.0/60.0))
	}
	if cfg.UploadBurst != 20 {
		t.Errorf("UploadBurst = %d, want 20", cfg.UploadBurst)
	}
}

func TestRateLimiter_TracksLimiterEntriesPerUser(t *testing.T) {
	rl := newTestRateLimiter(t, RateLimiterConfig{
		GeneralRate:     10,
		GeneralBurst:    10,
		UploadRate:      10,
		UploadBurst:     10,
		CleanupInterval: 1 * time.Minute,
	})

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, username := range []string{"yusuf", "maryam", "yusuf"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, limitedRequest(username))
	}

	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", got)
	}
	if got := rl.UploadLimiterCount(); got != 0 {
		t.Errorf("UploadLimiterCount() = %d, want 0", got)
	}
}
