package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubCounterStore struct {
	counts map[string]int64
}

func newStubCounterStore() *stubCounterStore {
	return &stubCounterStore{counts: map[string]int64{}}
}

func (s *stubCounterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.counts[key]++
	return s.counts[key], nil
}

func loginRequest(identifier string) *http.Request {
	body := []byte(`{"identifier":"` + identifier + `","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.10:52000"
	return req
}

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 10, newStubCounterStore(), nil)
	calls := 0
	handler := policy.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest("abel"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("abel"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", rec.Code)
	}
	if calls != 2 {
		t.Fatalf("expected blocked request to skip handler, calls=%d", calls)
	}
}

func TestAuthRateLimitBlocksPerIdentifier(t *testing.T) {
	store := newStubCounterStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 1, store, nil)
	handler := policy.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, loginRequest("sara@example.com"))
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, loginRequest("sara@example.com"))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", second.Code)
	}

	// A different identifier from the same IP still passes.
	third := httptest.NewRecorder()
	handler.ServeHTTP(third, loginRequest("abel@example.com"))
	if third.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", third.Code)
	}
}

func TestAuthRateLimitPreservesBodyForHandler(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 100, 100, newStubCounterStore(), nil)
	var seen []byte
	handler := policy.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		buf.ReadFrom(r.Body)
		seen = buf.Bytes()
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("abel"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !bytes.Contains(seen, []byte(`"identifier":"abel"`)) {
		t.Fatalf("handler saw truncated body: %s", seen)
	}
}
